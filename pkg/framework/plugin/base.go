package plugin

import (
	"github.com/justyntemme/godistortion/pkg/framework/bus"
	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/framework/state"
)

// Base provides the metadata, parameter and state plumbing shared by processors.
type Base struct {
	info   Info
	params *param.Registry
	state  *state.Manager
	buses  *bus.Configuration
}

// NewBase creates a new plugin base
func NewBase(info Info) *Base {
	b := &Base{
		info:   info,
		params: param.NewRegistry(),
		buses:  bus.NewStereoConfiguration(),
	}

	// Initialize state manager with parameter registry
	b.state = state.NewManager(b.params)

	return b
}

// Info returns plugin metadata
func (b *Base) Info() Info {
	return b.info
}

// Parameters returns the parameter registry for configuration
func (b *Base) Parameters() *param.Registry {
	return b.params
}

// State returns the state manager bound to the registry
func (b *Base) State() *state.Manager {
	return b.state
}

// Buses returns the current bus configuration
func (b *Base) Buses() *bus.Configuration {
	return b.buses
}

// SetBuses replaces the bus configuration. Call only while audio is stopped.
func (b *Base) SetBuses(c *bus.Configuration) {
	b.buses = c
}
