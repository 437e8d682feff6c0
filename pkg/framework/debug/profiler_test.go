package debug

import (
	"strings"
	"testing"
	"time"
)

func TestProfiler(t *testing.T) {
	t.Run("Record", func(t *testing.T) {
		p := NewProfiler(4)
		for _, d := range []time.Duration{3, 1, 4, 1, 5} {
			p.Record("block", d*time.Millisecond)
		}

		m, ok := p.GetMeasurement("block")
		if !ok {
			t.Fatal("measurement missing")
		}
		if m.Count() != 5 {
			t.Errorf("Count = %d, want 5", m.Count())
		}
		if m.Min() != time.Millisecond || m.Max() != 5*time.Millisecond {
			t.Errorf("Min/Max = %v/%v", m.Min(), m.Max())
		}
		if m.Last() != 5*time.Millisecond {
			t.Errorf("Last = %v", m.Last())
		}
		if m.Average() != 2800*time.Microsecond {
			t.Errorf("Average = %v", m.Average())
		}
		// Ring keeps 5, 1, 4, 1
		if got := m.Percentile(100); got != 5*time.Millisecond {
			t.Errorf("P100 = %v", got)
		}
		if got := m.Percentile(0); got != time.Millisecond {
			t.Errorf("P0 = %v", got)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		p := NewProfiler(10)
		p.SetEnabled(false)
		p.Time("skip", func() {})
		p.Record("skip", time.Second)
		if _, ok := p.GetMeasurement("skip"); ok {
			t.Error("disabled profiler recorded a measurement")
		}
		if p.Report() != "No measurements recorded" {
			t.Error("unexpected report for empty profiler")
		}
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		p := NewProfiler(10)
		p.Record("a", time.Millisecond)
		m, _ := p.GetMeasurement("a")
		p.Record("a", time.Second)
		if m.Count() != 1 {
			t.Error("snapshot changed after later records")
		}
	})

	t.Run("ReportAndReset", func(t *testing.T) {
		p := NewProfiler(10)
		p.Time("zeta", func() {})
		p.Time("alpha", func() {})

		names := p.Names()
		if len(names) != 2 || names[0] != "alpha" {
			t.Errorf("Names = %v", names)
		}
		report := p.Report()
		if strings.Index(report, "alpha:") > strings.Index(report, "zeta:") {
			t.Error("report should list sections in order")
		}

		p.Reset()
		if len(p.Names()) != 0 {
			t.Error("Reset left measurements")
		}
	})
}

func TestBlockProfiler(t *testing.T) {
	b := NewBlockProfiler(1000)
	if b.Load() != 0 {
		t.Error("Load before any block should be 0")
	}

	// 10 ms of processing for 100 samples (100 ms of audio) at 1 kHz
	b.Record(ProcessSection, 10*time.Millisecond)
	b.samples.Add(100)
	if load := b.Load(); load < 0.099 || load > 0.101 {
		t.Errorf("Load = %v, want 0.1", load)
	}

	stop := b.StartBlock(50)
	stop()
	m, _ := b.GetMeasurement(ProcessSection)
	if m.Count() != 2 {
		t.Errorf("Count = %d, want 2", m.Count())
	}
	if !strings.Contains(b.AudioReport(), "Samples:      150") {
		t.Error("AudioReport missing sample count")
	}
}
