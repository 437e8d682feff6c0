// Package plugin defines the contract between an audio processor and the
// hosts that drive it.
package plugin

import (
	"github.com/justyntemme/godistortion/pkg/framework/bus"
	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/framework/state"
)

// Processor is implemented by in-place audio effects.
//
// Prepare and Release are called while audio is stopped. Process is called
// from a single audio goroutine and must not allocate, lock or block.
// Parameter values may be changed from any goroutine through the registry.
type Processor interface {
	// Info returns plugin metadata
	Info() Info

	// Prepare readies the processor for a session.
	Prepare(sampleRate float64, maxBlockSize, inputChannels, outputChannels int) error

	// Release drops per-session state.
	Release()

	// Process transforms buf in place. Channels from inChannels upwards are
	// outputs without input and are cleared.
	Process(buf [][]float32, inChannels, numSamples int)

	// Parameters returns the ordered parameter registry
	Parameters() *param.Registry

	// State returns the persisted state manager
	State() *state.Manager

	// Buses returns the bus configuration of the current session
	Buses() *bus.Configuration
}

// Observer receives each processed block. The buffer is only valid during the
// call and must not be modified.
type Observer interface {
	Observe(buf [][]float32, numChannels, numSamples int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(buf [][]float32, numChannels, numSamples int)

// Observe calls f.
func (f ObserverFunc) Observe(buf [][]float32, numChannels, numSamples int) {
	f(buf, numChannels, numSamples)
}
