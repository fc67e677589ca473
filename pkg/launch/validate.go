package launch

import (
	"errors"
	"strconv"

	"trainctl/pkg/schema"
)

// Validate resolves supplied values over schema defaults and checks the
// result. For each declared option the supplied value wins, else the
// default, else the option is missing. Every coercion failure and every
// missing required option is collected before failing, so one Validate
// call reports the whole problem set. On success the returned RunConfig
// is immutable. Validate has no side effects and is idempotent.
func Validate(s *schema.Schema, supplied map[string]string) (RunConfig, error) {
	values := make(map[string]any)
	var missing []string
	var errs []error

	for _, opt := range s.Options() {
		raw, ok := supplied[opt.Name]
		if !ok {
			if opt.HasDefault() {
				values[opt.Name] = opt.Default
			} else if opt.Required {
				missing = append(missing, opt.Name)
			}
			continue
		}

		v, err := coerce(opt, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[opt.Name] = v
	}

	if len(missing) > 0 {
		errs = append(errs, &MissingRequiredOptionError{Options: missing})
	}
	if len(errs) > 0 {
		return RunConfig{}, errors.Join(errs...)
	}

	return RunConfig{values: values}, nil
}

func coerce(opt schema.Option, raw string) (any, error) {
	switch opt.Kind {
	case schema.KindFlag:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &TypeMismatchError{Option: opt.Name, Kind: opt.Kind, Value: raw}
		}
		return v, nil
	case schema.KindInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &TypeMismatchError{Option: opt.Name, Kind: opt.Kind, Value: raw}
		}
		return v, nil
	case schema.KindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &TypeMismatchError{Option: opt.Name, Kind: opt.Kind, Value: raw}
		}
		return v, nil
	default:
		if len(opt.OneOf) > 0 && !contains(opt.OneOf, raw) {
			return nil, &TypeMismatchError{Option: opt.Name, Kind: opt.Kind, Value: raw, Allowed: opt.OneOf}
		}
		return raw, nil
	}
}

func contains(allowed []string, v string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
