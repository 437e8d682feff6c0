package distortion

import "testing"

func TestAlgorithmNames(t *testing.T) {
	names := Names()
	if len(names) != 10 {
		t.Fatalf("expected 10 algorithms, got %d", len(names))
	}
	if names[3] != "Full-wave rectifier" {
		t.Errorf("names[3] = %q", names[3])
	}
	if Algorithm(-1).Valid() || Algorithm(NumAlgorithms).Valid() {
		t.Error("out of range algorithms should be invalid")
	}
}

func TestParseAlgorithm(t *testing.T) {
	for i := 0; i < NumAlgorithms; i++ {
		a, err := ParseAlgorithm(i)
		if err != nil || int(a) != i {
			t.Errorf("ParseAlgorithm(%d) = %v, %v", i, a, err)
		}
	}
	if _, err := ParseAlgorithm(NumAlgorithms); err == nil {
		t.Error("expected error for index past the end")
	}
	if _, err := ParseAlgorithm(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestClampAlgorithm(t *testing.T) {
	if ClampAlgorithm(-5) != HardClipping {
		t.Error("negative index should clamp to the first algorithm")
	}
	if ClampAlgorithm(99) != SlewLimiter {
		t.Error("large index should clamp to the last algorithm")
	}
	if ClampAlgorithm(5) != FoldBack {
		t.Error("valid index should be unchanged")
	}
}

func TestStateful(t *testing.T) {
	for _, a := range Algorithms() {
		want := a == BitCrusher || a == SlewLimiter
		if a.Stateful() != want {
			t.Errorf("%v.Stateful() = %v", a, a.Stateful())
		}
	}
}
