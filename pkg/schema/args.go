package schema

import (
	"fmt"
	"strings"
)

// ParseArgs tokenizes command-line arguments into a supplied-value map
// keyed by option name. Accepted forms:
//
//	--name=value
//	--name value   (non-flag options)
//	--name         (flag options, recorded as "true")
//
// Values stay as text; coercion to the declared kind happens at
// validation time. Unknown names fail with UnknownOptionError.
func (s *Schema) ParseArgs(args []string) (map[string]string, error) {
	supplied := make(map[string]string)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return nil, fmt.Errorf("unexpected argument %q: options start with --", arg)
		}

		name := strings.TrimPrefix(arg, "--")
		var value string
		var hasValue bool
		if eq := strings.Index(name, "="); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		opt, ok := s.Lookup(name)
		if !ok {
			return nil, &UnknownOptionError{Name: name}
		}

		if !hasValue {
			if opt.Kind == KindFlag {
				value = "true"
			} else {
				if i+1 >= len(args) {
					return nil, fmt.Errorf("option %q: missing value", name)
				}
				i++
				value = args[i]
			}
		}

		supplied[name] = value
	}

	return supplied, nil
}
