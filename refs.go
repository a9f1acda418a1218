package main

import (
	"strings"

	"github.com/samber/oops"
	"github.com/scam-tools/scam/lib/schema"
)

// parseRef reads "Section.Key".
func parseRef(s string) (schema.Ref, error) {
	section, key, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || section == "" || key == "" {
		return schema.Ref{}, oops.Errorf("%q is not of the form Section.Key", s)
	}
	return schema.Ref{Section: section, Key: key}, nil
}

// parseAssignment reads "Section.Key=value".
func parseAssignment(s string) (schema.Ref, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return schema.Ref{}, "", oops.Errorf("%q is not of the form Section.Key=value", s)
	}
	ref, err := parseRef(name)
	if err != nil {
		return schema.Ref{}, "", err
	}
	return ref, value, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, oops.Errorf("expected on or off, got %q", s)
}
