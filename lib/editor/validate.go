package editor

import (
	"fmt"
	"strings"

	"github.com/scam-tools/scam/lib/schema"
)

// State is the derived validity of one field.
type State int

const (
	Valid State = iota
	InvalidEmpty
	InvalidNotANumber
	InvalidExceedsMaximum
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case InvalidEmpty:
		return "empty"
	case InvalidNotANumber:
		return "not a number"
	case InvalidExceedsMaximum:
		return "exceeds maximum"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of validating one field. Value and Max are set for
// InvalidExceedsMaximum.
type Result struct {
	State State
	Value schema.Value
	Max   schema.Value
}

// OK reports whether the field is valid.
func (r Result) OK() bool { return r.State == Valid }

// Explain renders the user-facing message for an invalid result, or "".
func (r Result) Explain(ref schema.Ref) string {
	prefix := ref.Section + " - " + ref.Key + ": "
	switch r.State {
	case InvalidEmpty:
		return prefix + "Cannot be empty"
	case InvalidNotANumber:
		return prefix + "Must be a valid number"
	case InvalidExceedsMaximum:
		return prefix + fmt.Sprintf("Value %s exceeds maximum of %s", r.Value, r.Max)
	}
	return ""
}

// Field is the current value of one schema entry: Text for numeric and
// string entries, Checked for boolean ones.
type Field struct {
	Text    string
	Checked bool
}

// DefaultField returns the field holding e's default.
func DefaultField(e schema.Entry) Field {
	if e.Default.Kind() == schema.KindBool {
		return Field{Checked: e.Default.BoolValue()}
	}
	return Field{Text: e.Default.String()}
}

// IsChanged reports whether f differs from e's default. Booleans compare by
// value, everything else by trimmed text against the canonical default.
func IsChanged(e schema.Entry, f Field) bool {
	if e.Default.Kind() == schema.KindBool {
		return f.Checked != e.Default.BoolValue()
	}
	return strings.TrimSpace(f.Text) != e.Default.String()
}

// Validate checks text against e. Entries with a non-numeric default are
// always valid.
func Validate(e schema.Entry, text string) Result {
	if !e.Default.IsNumeric() {
		return Result{State: Valid}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{State: InvalidEmpty}
	}
	v, err := schema.ParseNumber(text)
	if err != nil {
		return Result{State: InvalidNotANumber}
	}
	if e.HasMax && v.Greater(e.Max) {
		return Result{State: InvalidExceedsMaximum, Value: v, Max: e.Max}
	}
	return Result{State: Valid, Value: v}
}

// ValidationError lists every invalid field, one explanation each.
type ValidationError struct {
	Explanations []string
}

func (e *ValidationError) Error() string {
	if len(e.Explanations) == 1 {
		return "invalid value: " + e.Explanations[0]
	}
	return fmt.Sprintf("%d invalid values: %s", len(e.Explanations), strings.Join(e.Explanations, "; "))
}
