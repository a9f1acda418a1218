// Package editor holds the current value of every schema field and derives
// from it what the rest of the tool needs: per-field validity, whether
// anything changed, and the changed-value map.
//
// The Aiming section of the schema is not edited field by field. Its
// SyncTurnRate entry only supplies the default of the sync flag, which links
// MovementParams.BaseTurnRate and MovementParams.BaseLookUpRate.
package editor

import (
	"errors"
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/schema"
	"github.com/scam-tools/scam/lib/util/logger"
)

var log = logger.GetSCAMLogger()

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotBoolean   = errors.New("field is not a boolean")
)

// Editor is the working state of one editing session. It is not safe for
// concurrent use.
type Editor struct {
	schema *schema.Schema
	refs   []schema.Ref
	fields map[schema.Ref]*Field
	sync   bool
}

// New returns an Editor with every field at its default and sync at the
// schema's Aiming.SyncTurnRate default.
func New(s *schema.Schema) *Editor {
	e := &Editor{}
	e.bind(s, nil)
	e.sync = e.defaultSync()
	return e
}

// bind rebuilds the field set for s, keeping values from keep where the
// ref survives.
func (e *Editor) bind(s *schema.Schema, keep map[schema.Ref]*Field) {
	e.schema = s
	e.refs = nil
	e.fields = make(map[schema.Ref]*Field)
	for _, entry := range s.All() {
		if entry.Section == schema.SectionAiming {
			continue
		}
		f := DefaultField(entry)
		if old, ok := keep[entry.Ref]; ok {
			f = *old
		}
		e.refs = append(e.refs, entry.Ref)
		e.fields[entry.Ref] = &f
	}
}

func (e *Editor) defaultSync() bool {
	v, ok := e.schema.Default(schema.SyncAiming)
	return ok && v.BoolValue()
}

// Schema returns the schema the editor currently compares against.
func (e *Editor) Schema() *schema.Schema { return e.schema }

// Refs returns the editable refs in schema order.
func (e *Editor) Refs() []schema.Ref {
	return append([]schema.Ref(nil), e.refs...)
}

// Entry returns the schema entry behind ref.
func (e *Editor) Entry(ref schema.Ref) (schema.Entry, bool) {
	if _, ok := e.fields[ref]; !ok {
		return schema.Entry{}, false
	}
	return e.schema.Lookup(ref)
}

// Field returns the current value of ref. The sync flag is reported as the
// Checked value of schema.SyncAiming.
func (e *Editor) Field(ref schema.Ref) (Field, bool) {
	if ref == schema.SyncAiming {
		return Field{Checked: e.sync}, true
	}
	f, ok := e.fields[ref]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Set updates the text of ref. Boolean fields accept "true" or "false". With
// sync on, numeric text for either linked key is written to both.
func (e *Editor) Set(ref schema.Ref, text string) error {
	entry, ok := e.Entry(ref)
	if !ok {
		if ref == schema.SyncAiming {
			b, err := parseBool(ref, text)
			if err != nil {
				return err
			}
			e.SetSync(b)
			return nil
		}
		return oops.With("field", ref.String()).Wrap(ErrUnknownField)
	}

	if entry.Default.Kind() == schema.KindBool {
		b, err := parseBool(ref, text)
		if err != nil {
			return err
		}
		e.fields[ref].Checked = b
		return nil
	}

	e.fields[ref].Text = text
	if e.sync && isLinked(ref) {
		if n, err := schema.ParseNumber(text); err == nil {
			for _, linked := range []schema.Ref{schema.TurnRate, schema.LookUpRate} {
				if f, ok := e.fields[linked]; ok {
					f.Text = n.String()
				}
			}
			log.WithFields(logger.Fields{
				"at":    "editor.Set",
				"field": ref.String(),
				"value": n.String(),
			}).Debug("synchronised aiming rates")
		}
	}
	return nil
}

// SetChecked updates a boolean field. schema.SyncAiming toggles sync.
func (e *Editor) SetChecked(ref schema.Ref, checked bool) error {
	if ref == schema.SyncAiming {
		e.SetSync(checked)
		return nil
	}
	entry, ok := e.Entry(ref)
	if !ok {
		return oops.With("field", ref.String()).Wrap(ErrUnknownField)
	}
	if entry.Default.Kind() != schema.KindBool {
		return oops.With("field", ref.String()).Wrap(ErrNotBoolean)
	}
	e.fields[ref].Checked = checked
	return nil
}

// Reset puts ref back to its default. Resetting either linked rate turns
// sync off.
func (e *Editor) Reset(ref schema.Ref) error {
	if ref == schema.SyncAiming {
		e.sync = e.defaultSync()
		return nil
	}
	entry, ok := e.Entry(ref)
	if !ok {
		return oops.With("field", ref.String()).Wrap(ErrUnknownField)
	}
	if isLinked(ref) {
		e.sync = false
	}
	*e.fields[ref] = DefaultField(entry)
	return nil
}

// ResetAll puts every field and the sync flag back to their defaults.
func (e *Editor) ResetAll() {
	for _, ref := range e.refs {
		entry, _ := e.schema.Lookup(ref)
		*e.fields[ref] = DefaultField(entry)
	}
	e.sync = e.defaultSync()
}

// SetSync turns the rate link on or off. Turning it on copies the turn rate
// into the look rate when the turn rate is numeric.
func (e *Editor) SetSync(on bool) {
	e.sync = on
	if !on {
		return
	}
	turn, ok := e.fields[schema.TurnRate]
	if !ok {
		return
	}
	n, err := schema.ParseNumber(turn.Text)
	if err != nil {
		return
	}
	if look, ok := e.fields[schema.LookUpRate]; ok {
		look.Text = n.String()
	}
}

// Sync reports whether the rate link is on.
func (e *Editor) Sync() bool { return e.sync }

// Load resets every field to its default and then applies m. An
// Aiming.SyncTurnRate entry sets the sync flag; without one sync returns to
// its default. Values for unknown refs are skipped.
func (e *Editor) Load(m *schema.ValueMap) {
	for _, ref := range e.refs {
		entry, _ := e.schema.Lookup(ref)
		*e.fields[ref] = DefaultField(entry)
	}
	e.sync = e.defaultSync()

	for _, section := range m.Sections() {
		for _, key := range m.Keys(section) {
			v, _ := m.Get(section, key)
			ref := schema.Ref{Section: section, Key: key}
			if ref == schema.SyncAiming {
				e.sync = v.BoolValue()
				continue
			}
			f, ok := e.fields[ref]
			if !ok {
				log.WithFields(logger.Fields{
					"at":    "editor.Load",
					"field": ref.String(),
				}).Debug("skipping value for unknown field")
				continue
			}
			entry, _ := e.schema.Lookup(ref)
			if entry.Default.Kind() == schema.KindBool {
				if v.Kind() == schema.KindBool {
					f.Checked = v.BoolValue()
				}
				continue
			}
			f.Text = v.String()
		}
	}
}

// Rebase switches to s, keeping the current value of every ref that s still
// defines. Changed status is then judged against the new defaults.
func (e *Editor) Rebase(s *schema.Schema) {
	e.bind(s, e.fields)
}

// Validate checks the current value of ref.
func (e *Editor) Validate(ref schema.Ref) Result {
	entry, ok := e.Entry(ref)
	if !ok {
		return Result{State: Valid}
	}
	return Validate(entry, e.fields[ref].Text)
}

// Changed reports whether ref differs from its default.
func (e *Editor) Changed(ref schema.Ref) bool {
	if ref == schema.SyncAiming {
		return e.sync != e.defaultSync()
	}
	entry, ok := e.Entry(ref)
	if !ok {
		return false
	}
	return IsChanged(entry, *e.fields[ref])
}

// HasAnyInvalid validates every field and returns one explanation per
// invalid field, in schema order.
func (e *Editor) HasAnyInvalid() (bool, []string) {
	var explanations []string
	for _, ref := range e.refs {
		if r := e.Validate(ref); !r.OK() {
			explanations = append(explanations, r.Explain(ref))
		}
	}
	return len(explanations) > 0, explanations
}

// Check returns a *ValidationError when any field is invalid.
func (e *Editor) Check() error {
	if invalid, explanations := e.HasAnyInvalid(); invalid {
		return &ValidationError{Explanations: explanations}
	}
	return nil
}

// HasAnyChanged reports whether any field, or the sync flag, differs from
// its default.
func (e *Editor) HasAnyChanged() bool {
	for _, ref := range e.refs {
		if e.Changed(ref) {
			return true
		}
	}
	return e.syncChanged()
}

func (e *Editor) syncChanged() bool {
	if _, ok := e.schema.Lookup(schema.SyncAiming); !ok {
		return false
	}
	return e.sync != e.defaultSync()
}

// SectionChanged reports whether section holds a change. The linked rates
// count towards Aiming, together with the sync flag, and not towards
// MovementParams.
func (e *Editor) SectionChanged(section string) bool {
	if section == schema.SectionAiming {
		return e.syncChanged() || e.Changed(schema.TurnRate) || e.Changed(schema.LookUpRate)
	}
	for _, ref := range e.refs {
		if ref.Section != section || isLinked(ref) {
			continue
		}
		if e.Changed(ref) {
			return true
		}
	}
	return false
}

// ChangedValues builds the changed-value map: every changed field, or every
// field when includeDefaults is set, followed by Aiming.SyncTurnRate = true
// while sync is on. Numeric text that does not parse is an error naming the
// field.
func (e *Editor) ChangedValues(includeDefaults bool) (*schema.ValueMap, error) {
	m := schema.NewValueMap()
	for _, ref := range e.refs {
		entry, _ := e.schema.Lookup(ref)
		f := e.fields[ref]
		if !includeDefaults && !IsChanged(entry, *f) {
			continue
		}
		switch {
		case entry.Default.Kind() == schema.KindBool:
			m.Set(ref.Section, ref.Key, schema.Bool(f.Checked))
		case entry.Default.IsNumeric():
			v, err := schema.ParseNumber(f.Text)
			if err != nil {
				return nil, oops.
					With("section", ref.Section).
					With("key", ref.Key).
					Wrapf(err, "invalid value for %s", ref)
			}
			m.Set(ref.Section, ref.Key, v)
		default:
			m.Set(ref.Section, ref.Key, schema.String(strings.TrimSpace(f.Text)))
		}
	}
	if e.sync {
		m.Set(schema.SectionAiming, schema.KeySyncTurnRate, schema.Bool(true))
	}
	return m, nil
}

func isLinked(ref schema.Ref) bool {
	return ref == schema.TurnRate || ref == schema.LookUpRate
}

func parseBool(ref schema.Ref, text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, oops.With("field", ref.String()).Errorf("%s must be true or false, got %q", ref, text)
}
