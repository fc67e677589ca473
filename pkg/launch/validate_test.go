package launch_test

import (
	"errors"
	"reflect"
	"testing"

	. "trainctl/pkg/launch"
	"trainctl/pkg/schema"
)

func minimalSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()
	s.MustDefine(schema.Option{Name: "output-dir", Kind: schema.KindString, Required: true})
	s.MustDefine(schema.Option{Name: "per-device-train-batch-size", Kind: schema.KindInteger, Default: 8})
	return s
}

func TestValidate_SuppliedValuesWinOverDefaults(t *testing.T) {
	s := minimalSchema(t)

	cfg, err := Validate(s, map[string]string{
		"output-dir":                  "out",
		"per-device-train-batch-size": "16",
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.String("output-dir") != "out" {
		t.Errorf("expected output-dir=out, got %q", cfg.String("output-dir"))
	}
	if cfg.Int("per-device-train-batch-size") != 16 {
		t.Errorf("expected batch size 16, got %d", cfg.Int("per-device-train-batch-size"))
	}
}

func TestValidate_OmittedOptionsTakeDefaults(t *testing.T) {
	s := minimalSchema(t)

	cfg, err := Validate(s, map[string]string{"output-dir": "out"})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.Int("per-device-train-batch-size") != 8 {
		t.Errorf("expected default batch size 8, got %d", cfg.Int("per-device-train-batch-size"))
	}
}

func TestValidate_ListsAllMissingRequiredOptions(t *testing.T) {
	s := schema.New()
	s.MustDefine(schema.Option{Name: "output-dir", Kind: schema.KindString, Required: true})
	s.MustDefine(schema.Option{Name: "vocab-file", Kind: schema.KindString, Required: true})

	_, err := Validate(s, map[string]string{})
	var missing *MissingRequiredOptionError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRequiredOptionError, got %v", err)
	}
	want := []string{"output-dir", "vocab-file"}
	if !reflect.DeepEqual(missing.Options, want) {
		t.Errorf("expected missing %v, got %v", want, missing.Options)
	}
}

func TestValidate_TypeMismatchNamesOptionAndKind(t *testing.T) {
	s := minimalSchema(t)

	_, err := Validate(s, map[string]string{
		"output-dir":                  "out",
		"per-device-train-batch-size": "ten",
	})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if mismatch.Option != "per-device-train-batch-size" {
		t.Errorf("expected offending option name, got %q", mismatch.Option)
	}
	if mismatch.Kind != schema.KindInteger {
		t.Errorf("expected integer kind, got %s", mismatch.Kind)
	}
}

func TestValidate_ReportsMismatchAndMissingTogether(t *testing.T) {
	s := minimalSchema(t)

	// output-dir omitted AND a bad integer: one pass reports both.
	_, err := Validate(s, map[string]string{
		"per-device-train-batch-size": "ten",
	})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected TypeMismatchError in aggregate, got %v", err)
	}
	var missing *MissingRequiredOptionError
	if !errors.As(err, &missing) {
		t.Errorf("expected MissingRequiredOptionError in aggregate, got %v", err)
	}
}

func TestValidate_EnumViolation(t *testing.T) {
	s := schema.New()
	s.MustDefine(schema.Option{Name: "evaluation-strategy", Kind: schema.KindString,
		Default: "steps", OneOf: []string{"no", "steps", "epoch"}})

	_, err := Validate(s, map[string]string{"evaluation-strategy": "hourly"})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if len(mismatch.Allowed) != 3 {
		t.Errorf("expected allowed set in error, got %v", mismatch.Allowed)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	s := minimalSchema(t)
	supplied := map[string]string{"output-dir": "out"}

	a, err := Validate(s, supplied)
	if err != nil {
		t.Fatalf("first validate failed: %v", err)
	}
	b, err := Validate(s, supplied)
	if err != nil {
		t.Fatalf("second validate failed: %v", err)
	}
	if !reflect.DeepEqual(a.Values(), b.Values()) {
		t.Errorf("expected equal configurations, got %v vs %v", a.Values(), b.Values())
	}
}

func TestValidate_FlagCoercion(t *testing.T) {
	s := schema.New()
	s.MustDefine(schema.Option{Name: "do-train", Kind: schema.KindFlag, Default: false})

	cfg, err := Validate(s, map[string]string{"do-train": "true"})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !cfg.Flag("do-train") {
		t.Error("expected do-train to resolve true")
	}

	_, err = Validate(s, map[string]string{"do-train": "yes"})
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError for non-boolean flag value, got %v", err)
	}
}

func TestRunConfig_ValuesReturnsCopy(t *testing.T) {
	s := minimalSchema(t)
	cfg, err := Validate(s, map[string]string{"output-dir": "out"})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	values := cfg.Values()
	values["output-dir"] = "tampered"

	if cfg.String("output-dir") != "out" {
		t.Error("mutating the returned map must not affect the configuration")
	}
}

func TestRunConfig_ArgsSerialization(t *testing.T) {
	s := schema.New()
	s.MustDefine(schema.Option{Name: "do-train", Kind: schema.KindFlag, Default: false})
	s.MustDefine(schema.Option{Name: "logging-steps", Kind: schema.KindInteger, Default: 50})
	s.MustDefine(schema.Option{Name: "mlm-probability", Kind: schema.KindFloat, Default: 0.15})
	s.MustDefine(schema.Option{Name: "output-dir", Kind: schema.KindString, Required: true})

	cfg, err := Validate(s, map[string]string{"output-dir": "out", "do-train": "true"})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	want := []string{
		"--do-train",
		"--logging-steps=50",
		"--mlm-probability=0.15",
		"--output-dir=out",
	}
	if got := cfg.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected args %v, got %v", want, got)
	}
}

func TestRunConfig_FalseFlagsOmittedFromArgs(t *testing.T) {
	s := schema.New()
	s.MustDefine(schema.Option{Name: "do-eval", Kind: schema.KindFlag, Default: false})

	cfg, err := Validate(s, map[string]string{})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if args := cfg.Args(); len(args) != 0 {
		t.Errorf("expected no args for false flag, got %v", args)
	}
}
