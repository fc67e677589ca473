package schema

import "fmt"

// DuplicateOptionError reports a Define call colliding with an
// already-registered option name.
type DuplicateOptionError struct {
	Name string
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("option %q: already defined", e.Name)
}

// UnknownOptionError reports a supplied argument that matches no
// declared option.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("option %q: not recognized", e.Name)
}
