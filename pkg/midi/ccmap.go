package midi

import (
	"fmt"
	"sync"
)

// Target receives parameter changes decoded from MIDI.
type Target interface {
	SetParam(id uint32, plain float64) error
	SetParamNormalized(id uint32, normalized float64) error
}

// CCMap binds controller numbers to parameter IDs. Program changes select a
// plain value on the program parameter, when one is bound.
type CCMap struct {
	mu         sync.RWMutex
	bindings   map[uint8]uint32
	program    uint32
	hasProgram bool
	channel    int // -1 listens to all channels
}

// NewCCMap creates an empty map listening on all channels.
func NewCCMap() *CCMap {
	return &CCMap{
		bindings: make(map[uint8]uint32),
		channel:  -1,
	}
}

// Bind routes controller cc to parameter id.
func (m *CCMap) Bind(cc uint8, id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[cc] = id
}

// Unbind removes a controller binding.
func (m *CCMap) Unbind(cc uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, cc)
}

// BindProgram routes program changes to parameter id.
func (m *CCMap) BindProgram(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.program = id
	m.hasProgram = true
}

// Program returns the parameter bound to program changes.
func (m *CCMap) Program() (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.program, m.hasProgram
}

// Listen restricts the map to one MIDI channel (0-15). Negative listens to all.
func (m *CCMap) Listen(channel int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channel = channel
}

// Lookup returns the parameter bound to cc.
func (m *CCMap) Lookup(cc uint8) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.bindings[cc]
	return id, ok
}

// Apply forwards one event to target. It reports whether the event was bound.
func (m *CCMap) Apply(ev Event, target Target) (bool, error) {
	m.mu.RLock()
	channel := m.channel
	program, hasProgram := m.program, m.hasProgram
	m.mu.RUnlock()

	if channel >= 0 && int(ev.Channel()) != channel {
		return false, nil
	}

	switch e := ev.(type) {
	case ControlChangeEvent:
		id, ok := m.Lookup(e.Controller)
		if !ok {
			return false, nil
		}
		if err := target.SetParamNormalized(id, e.Normalized()); err != nil {
			return true, fmt.Errorf("apply %s: %w", e, err)
		}
		return true, nil
	case ProgramChangeEvent:
		if !hasProgram {
			return false, nil
		}
		if err := target.SetParam(program, float64(e.Program)); err != nil {
			return true, fmt.Errorf("apply %s: %w", e, err)
		}
		return true, nil
	}
	return false, nil
}

// ApplyRaw parses a wire message and applies it.
func (m *CCMap) ApplyRaw(raw []byte, target Target) (bool, error) {
	ev, err := Parse(raw, 0)
	if err != nil {
		return false, err
	}
	return m.Apply(ev, target)
}
