package launch

import (
	"fmt"
	"strings"

	"trainctl/pkg/schema"
)

// MissingRequiredOptionError reports every required option left without a
// value after resolution. All offenders are collected before failing so a
// bad invocation is diagnosed in one pass.
type MissingRequiredOptionError struct {
	Options []string
}

func (e *MissingRequiredOptionError) Error() string {
	return fmt.Sprintf("missing required options: %s", strings.Join(e.Options, ", "))
}

// TypeMismatchError reports a supplied value that cannot be coerced to the
// option's declared kind, or a value outside the option's allowed set.
type TypeMismatchError struct {
	Option  string
	Kind    schema.Kind
	Value   string
	Allowed []string // set for enum violations
}

func (e *TypeMismatchError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("option %q: value %q not one of [%s]",
			e.Option, e.Value, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("option %q: value %q is not a valid %s",
		e.Option, e.Value, strings.ToLower(string(e.Kind)))
}
