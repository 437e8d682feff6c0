package debug

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects named timing measurements.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	name        string
	count       uint64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	lastTime    time.Duration
	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a profiler keeping the last maxSamples timings per section.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section. Call the returned func to stop.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {}
	}

	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of fn.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores one timing for name.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	if !p.enabled.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			name:    name,
			minTime: elapsed,
			maxTime: elapsed,
			samples: make([]time.Duration, 0, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.count++
	m.totalTime += elapsed
	m.lastTime = elapsed
	if elapsed < m.minTime {
		m.minTime = elapsed
	}
	if elapsed > m.maxTime {
		m.maxTime = elapsed
	}

	if len(m.samples) < p.maxSamples {
		m.samples = append(m.samples, elapsed)
	} else {
		m.samples[m.sampleIndex] = elapsed
	}
	m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
}

// GetMeasurement returns a snapshot of the measurement for name.
func (p *Profiler) GetMeasurement(name string) (*Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return nil, false
	}
	return m.snapshot(), true
}

// Names returns the recorded section names in sorted order.
func (p *Profiler) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.measurements))
	for name := range p.measurements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.measurements = make(map[string]*Measurement)
}

// Report renders every measurement as text.
func (p *Profiler) Report() string {
	names := p.Names()
	if len(names) == 0 {
		return "No measurements recorded"
	}

	var sb strings.Builder
	sb.WriteString("Performance Report:\n")
	sb.WriteString("==================\n\n")
	for _, name := range names {
		m, _ := p.GetMeasurement(name)
		fmt.Fprintf(&sb, "%s:\n", name)
		fmt.Fprintf(&sb, "  Count:   %d\n", m.count)
		fmt.Fprintf(&sb, "  Total:   %v\n", m.totalTime)
		fmt.Fprintf(&sb, "  Average: %v\n", m.Average())
		fmt.Fprintf(&sb, "  Min:     %v\n", m.minTime)
		fmt.Fprintf(&sb, "  Max:     %v\n", m.maxTime)
		fmt.Fprintf(&sb, "  P99:     %v\n", m.Percentile(99))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Measurement) snapshot() *Measurement {
	c := *m
	c.samples = append([]time.Duration(nil), m.samples...)
	return &c
}

// Name returns the section name.
func (m *Measurement) Name() string { return m.name }

// Count returns how many timings were recorded.
func (m *Measurement) Count() uint64 { return m.count }

// Min returns the fastest timing.
func (m *Measurement) Min() time.Duration { return m.minTime }

// Max returns the slowest timing.
func (m *Measurement) Max() time.Duration { return m.maxTime }

// Last returns the most recent timing.
func (m *Measurement) Last() time.Duration { return m.lastTime }

// Average returns the mean over all recorded timings.
func (m *Measurement) Average() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.totalTime / time.Duration(m.count)
}

// Percentile returns the p-th percentile (0-100) of the retained timings.
func (m *Measurement) Percentile(p float64) time.Duration {
	if len(m.samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), m.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	index := int(float64(len(sorted)-1) * p / 100.0)
	return sorted[index]
}

// ProcessSection is the section name BlockProfiler records blocks under.
const ProcessSection = "process"

// BlockProfiler times processing blocks against their real-time budget.
type BlockProfiler struct {
	*Profiler
	sampleRate float64
	samples    atomic.Uint64
}

// NewBlockProfiler creates a profiler for audio at sampleRate.
func NewBlockProfiler(sampleRate float64) *BlockProfiler {
	return &BlockProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
	}
}

// StartBlock begins timing a block of n samples.
func (b *BlockProfiler) StartBlock(n int) func() {
	stop := b.Start(ProcessSection)
	return func() {
		stop()
		b.samples.Add(uint64(n))
	}
}

// Load returns processing time as a fraction of the audio duration processed.
// Values above 1 mean slower than real time.
func (b *BlockProfiler) Load() float64 {
	m, ok := b.GetMeasurement(ProcessSection)
	n := b.samples.Load()
	if !ok || n == 0 || b.sampleRate <= 0 {
		return 0
	}
	audio := time.Duration(float64(n) / b.sampleRate * float64(time.Second))
	return float64(m.totalTime) / float64(audio)
}

// AudioReport extends Report with real-time load figures.
func (b *BlockProfiler) AudioReport() string {
	var sb strings.Builder
	sb.WriteString(b.Report())
	sb.WriteString("\nAudio Processing Stats:\n")
	fmt.Fprintf(&sb, "  Sample Rate:  %.0f Hz\n", b.sampleRate)
	fmt.Fprintf(&sb, "  Samples:      %d\n", b.samples.Load())
	fmt.Fprintf(&sb, "  CPU Load:     %.2f%%\n", b.Load()*100)
	return sb.String()
}
