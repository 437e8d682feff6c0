package param

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownParameter is returned for IDs or identifiers that are not registered.
var ErrUnknownParameter = errors.New("unknown parameter")

// Registry manages plugin parameters
type Registry struct {
	params      map[uint32]*Parameter
	identifiers map[string]uint32
	order       []uint32 // Maintain order for indexed access
	mu          sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params:      make(map[uint32]*Parameter),
		identifiers: make(map[string]uint32),
		order:       make([]uint32, 0),
	}
}

// Add registers new parameters. IDs and identifiers must be unique.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter id %d already registered", p.ID)
		}
		if p.Identifier != "" {
			if _, exists := r.identifiers[p.Identifier]; exists {
				return fmt.Errorf("parameter identifier %q already registered", p.Identifier)
			}
			r.identifiers[p.Identifier] = p.ID
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// Lookup retrieves a parameter by its string identifier
func (r *Registry) Lookup(identifier string) (*Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.identifiers[identifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, identifier)
	}
	return r.params[id], nil
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}

	id := r.order[index]
	return r.params[id]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
