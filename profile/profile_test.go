package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Disabled(t *testing.T) {
	stop := Profiler{}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("expected a no-op profiler, got %T", stop)
	}

	stop.Stop()
	stop.Stop()
}

func TestProfiler_UnknownMode(t *testing.T) {
	stop := Profiler{Mode: "bogus", Dir: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Fatalf("expected a no-op profiler, got %T", stop)
	}

	stop.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("expected sorted modes, got %v", modes)
	}

	if slices.Contains(modes, "quiet") {
		t.Error("quiet is an option, not a mode")
	}
}
