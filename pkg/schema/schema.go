package schema

import "sort"

// Kind declares the runtime type of an option's value.
type Kind string

const (
	KindFlag    Kind = "FLAG"    // boolean switch, true when present
	KindString  Kind = "STRING"
	KindInteger Kind = "INTEGER"
	KindFloat   Kind = "FLOAT"
)

// Option is a single declared configuration option.
type Option struct {
	Name     string
	Kind     Kind
	Default  any  // nil when the option has no default
	Required bool
	OneOf    []string // optional allowed values, string options only
}

// HasDefault reports whether the option carries a default value.
func (o Option) HasDefault() bool {
	return o.Default != nil
}

// Schema is the set of recognized options for a training run.
// Registration is in-memory only; a Schema has no side effects.
type Schema struct {
	options map[string]Option
	order   []string
}

func New() *Schema {
	return &Schema{options: make(map[string]Option)}
}

// Define registers an option. Names are unique within a schema;
// a collision fails with DuplicateOptionError.
func (s *Schema) Define(opt Option) error {
	if _, exists := s.options[opt.Name]; exists {
		return &DuplicateOptionError{Name: opt.Name}
	}
	s.options[opt.Name] = opt
	s.order = append(s.order, opt.Name)
	return nil
}

// MustDefine is Define for statically-known schemas, where a duplicate
// is a programming error.
func (s *Schema) MustDefine(opt Option) {
	if err := s.Define(opt); err != nil {
		panic(err)
	}
}

// Lookup returns the declared option and whether it exists.
func (s *Schema) Lookup(name string) (Option, bool) {
	opt, ok := s.options[name]
	return opt, ok
}

// Options returns all declared options in definition order.
func (s *Schema) Options() []Option {
	out := make([]Option, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.options[name])
	}
	return out
}

// Defaults returns the mapping of every defaulted option to its default.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any)
	for name, opt := range s.options {
		if opt.HasDefault() {
			out[name] = opt.Default
		}
	}
	return out
}

// Required returns the names of all required options, sorted.
func (s *Schema) Required() []string {
	var out []string
	for name, opt := range s.options {
		if opt.Required {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
