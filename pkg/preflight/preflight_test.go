package preflight_test

import (
	"testing"

	. "trainctl/pkg/preflight"
)

func TestInspect_DetectsCPUs(t *testing.T) {
	snap := Inspect()
	if snap.CPUs < 1 {
		t.Errorf("expected at least one CPU, got %d", snap.CPUs)
	}
}

func TestCheck_NeverFails(t *testing.T) {
	// Floor far above any real machine: only a warning, never an error.
	snap := Check(1 << 40)
	if snap.CPUs < 1 {
		t.Errorf("expected snapshot even when below floor, got %+v", snap)
	}
}
