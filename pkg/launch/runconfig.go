package launch

import (
	"fmt"
	"sort"
	"strconv"
)

// RunConfig is a fully resolved, immutable run configuration: every
// required option has a value and every value matches its declared kind.
// Produced only by Validate.
type RunConfig struct {
	values map[string]any
}

// Value returns the resolved value for an option name.
func (c RunConfig) Value(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// String returns a string option's value, or "" when unset.
func (c RunConfig) String(name string) string {
	if v, ok := c.values[name].(string); ok {
		return v
	}
	return ""
}

// Int returns an integer option's value, or 0 when unset.
func (c RunConfig) Int(name string) int {
	if v, ok := c.values[name].(int); ok {
		return v
	}
	return 0
}

// Float returns a float option's value, or 0 when unset.
func (c RunConfig) Float(name string) float64 {
	if v, ok := c.values[name].(float64); ok {
		return v
	}
	return 0
}

// Flag reports whether a flag option resolved to true.
func (c RunConfig) Flag(name string) bool {
	if v, ok := c.values[name].(bool); ok {
		return v
	}
	return false
}

// Names returns all resolved option names, sorted.
func (c RunConfig) Names() []string {
	out := make([]string, 0, len(c.values))
	for name := range c.values {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Values returns a copy of the resolved mapping.
func (c RunConfig) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Args serializes the configuration into the trainer's argv form:
// true flags as bare "--name", everything else as "--name=value".
// Options are emitted in sorted order so the argv is stable run to run.
func (c RunConfig) Args() []string {
	var args []string
	for _, name := range c.Names() {
		switch v := c.values[name].(type) {
		case bool:
			if v {
				args = append(args, "--"+name)
			}
		case int:
			args = append(args, fmt.Sprintf("--%s=%d", name, v))
		case float64:
			args = append(args, "--"+name+"="+strconv.FormatFloat(v, 'g', -1, 64))
		case string:
			args = append(args, "--"+name+"="+v)
		}
	}
	return args
}
