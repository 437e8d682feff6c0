package host

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/justyntemme/godistortion/pkg/dsp/distortion"
	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/param"
)

func TestAutomationValues(t *testing.T) {
	a, err := NewAutomation(`
function automate(t)
  return { tone = 6 * t, inputGain = -3, distortionType = "fold" }
end`)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	values, err := a.At(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d values", len(values))
	}
	if values[0].Identifier != "distortionType" || values[0].Text != "fold" {
		t.Errorf("values[0] = %+v", values[0])
	}
	if values[1].Identifier != "inputGain" || values[1].Plain != -3 {
		t.Errorf("values[1] = %+v", values[1])
	}
	if values[2].Identifier != "tone" || values[2].Plain != 3 {
		t.Errorf("values[2] = %+v", values[2])
	}
}

func TestAutomationApply(t *testing.T) {
	proc := effect.New()
	a, err := NewAutomation(`function automate(t) return { tone = t, distortionType = "Soft clipping" } end`)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if err := a.Apply(2.5, proc.Parameters()); err != nil {
		t.Fatal(err)
	}
	tone, _ := proc.Param(effect.ParamTone)
	if math.Abs(tone-2.5) > 1e-9 {
		t.Errorf("tone = %v, want 2.5", tone)
	}
	if proc.Algorithm() != distortion.SoftClipping {
		t.Errorf("algorithm = %v", proc.Algorithm())
	}
}

func TestAutomationNil(t *testing.T) {
	a, err := NewAutomation(`function automate(t) if t > 1 then return { tone = 1 } end end`)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	values, err := a.At(0)
	if err != nil || values != nil {
		t.Errorf("At(0) = %v, %v", values, err)
	}
}

func TestAutomationErrors(t *testing.T) {
	proc := effect.New()

	tests := []struct {
		name   string
		source string
		want   error
	}{
		{"NoFunction", `x = 1`, ErrNoAutomate},
		{"NotATable", `function automate(t) return 4 end`, ErrAutomationValue},
		{"NumericKey", `function automate(t) return { 1 } end`, ErrAutomationValue},
		{"TableValue", `function automate(t) return { tone = {} } end`, ErrAutomationValue},
		{"UnknownParameter", `function automate(t) return { drive = 1 } end`, param.ErrUnknownParameter},
		{"UnknownChoice", `function automate(t) return { distortionType = "fuzz" } end`, ErrAutomationValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAutomation(tt.source)
			if err == nil {
				defer a.Close()
				err = a.Apply(0, proc.Parameters())
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("RuntimeError", func(t *testing.T) {
		a, err := NewAutomation(`function automate(t) error("boom") end`)
		if err != nil {
			t.Fatal(err)
		}
		defer a.Close()
		if _, err := a.At(0); err == nil {
			t.Error("expected the script error")
		}
	})

	t.Run("SyntaxError", func(t *testing.T) {
		if _, err := NewAutomation(`function automate(`); err == nil {
			t.Error("expected a compile error")
		}
	})
}

func TestLoadAutomation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.lua")
	if err := os.WriteFile(path, []byte(`function automate(t) return { outputGain = -6 } end`), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := LoadAutomation(path)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	values, err := a.At(0)
	if err != nil || len(values) != 1 || values[0].Plain != -6 {
		t.Errorf("At(0) = %v, %v", values, err)
	}

	if _, err := LoadAutomation(filepath.Join(t.TempDir(), "missing.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing script error = %v", err)
	}
}
