package schema_test

import (
	"errors"
	"testing"

	. "trainctl/pkg/schema"
)

func TestSchema_Define_RejectsDuplicateNames(t *testing.T) {
	s := New()
	if err := s.Define(Option{Name: "output-dir", Kind: KindString, Required: true}); err != nil {
		t.Fatalf("first define failed: %v", err)
	}

	err := s.Define(Option{Name: "output-dir", Kind: KindInteger})
	if err == nil {
		t.Fatal("expected duplicate define to fail")
	}
	var dup *DuplicateOptionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateOptionError, got %T", err)
	}
	if dup.Name != "output-dir" {
		t.Errorf("expected offending name 'output-dir', got %q", dup.Name)
	}
}

func TestSchema_Defaults_ReturnsOnlyDefaultedOptions(t *testing.T) {
	s := New()
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})
	s.MustDefine(Option{Name: "per-device-train-batch-size", Kind: KindInteger, Default: 8})
	s.MustDefine(Option{Name: "mlm-probability", Kind: KindFloat, Default: 0.0})

	defaults := s.Defaults()
	if len(defaults) != 2 {
		t.Fatalf("expected 2 defaults, got %d", len(defaults))
	}
	if defaults["per-device-train-batch-size"] != 8 {
		t.Errorf("expected batch size default 8, got %v", defaults["per-device-train-batch-size"])
	}
	if _, ok := defaults["output-dir"]; ok {
		t.Error("output-dir has no default and must not appear")
	}
}

func TestSchema_Required_ListsRequiredNames(t *testing.T) {
	s := New()
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})
	s.MustDefine(Option{Name: "run-name", Kind: KindString})

	req := s.Required()
	if len(req) != 1 || req[0] != "output-dir" {
		t.Errorf("expected [output-dir], got %v", req)
	}
}

func TestSchema_ParseArgs_AcceptedForms(t *testing.T) {
	s := New()
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})
	s.MustDefine(Option{Name: "logging-steps", Kind: KindInteger, Default: 500})
	s.MustDefine(Option{Name: "do-train", Kind: KindFlag, Default: false})

	supplied, err := s.ParseArgs([]string{
		"--output-dir=out",
		"--logging-steps", "50",
		"--do-train",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if supplied["output-dir"] != "out" {
		t.Errorf("expected output-dir=out, got %q", supplied["output-dir"])
	}
	if supplied["logging-steps"] != "50" {
		t.Errorf("expected logging-steps=50, got %q", supplied["logging-steps"])
	}
	if supplied["do-train"] != "true" {
		t.Errorf("expected do-train=true, got %q", supplied["do-train"])
	}
}

func TestSchema_ParseArgs_RejectsUnknownOption(t *testing.T) {
	s := New()
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})

	_, err := s.ParseArgs([]string{"--no-such-option=1"})
	var unknown *UnknownOptionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownOptionError, got %v", err)
	}
	if unknown.Name != "no-such-option" {
		t.Errorf("expected offending name 'no-such-option', got %q", unknown.Name)
	}
}

func TestSchema_ParseArgs_RejectsMissingValue(t *testing.T) {
	s := New()
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})

	if _, err := s.ParseArgs([]string{"--output-dir"}); err == nil {
		t.Fatal("expected error for dangling non-flag option")
	}
}

func TestTraining_SchemaShape(t *testing.T) {
	s := Training()

	req := s.Required()
	if len(req) != 1 || req[0] != "output-dir" {
		t.Errorf("expected output-dir to be the only required option, got %v", req)
	}

	opt, ok := s.Lookup("per-device-train-batch-size")
	if !ok {
		t.Fatal("per-device-train-batch-size not defined")
	}
	if opt.Kind != KindInteger || opt.Default != 8 {
		t.Errorf("expected integer default 8, got kind=%s default=%v", opt.Kind, opt.Default)
	}

	opt, ok = s.Lookup("mlm-probability")
	if !ok || opt.Kind != KindFloat || opt.Default != 0.0 {
		t.Errorf("expected mlm-probability float default 0, got %+v", opt)
	}

	opt, ok = s.Lookup("evaluation-strategy")
	if !ok || len(opt.OneOf) != 3 {
		t.Errorf("expected evaluation-strategy enum of 3 values, got %+v", opt)
	}
}
