package games

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fadedpez/blondie/internal/types"
)

// Registry is the variant catalog. Handlers register once at startup; lookups
// happen at game creation.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates an empty variant registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a variant handler to the catalog
func (r *Registry) Register(handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := handler.Code()
	if _, exists := r.handlers[code]; exists {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("Variant %s is already registered", code))
	}

	r.handlers[code] = handler
	return nil
}

// Get returns the handler for a variant code
func (r *Registry) Get(code string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[code]
	if !exists {
		return nil, types.NewGameError(types.ErrUnknownVariant, fmt.Sprintf("Variant %s is not registered", code))
	}

	return handler, nil
}

// List returns the registered variant codes in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.handlers))
	for code := range r.handlers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DefaultRegistry returns a registry with every built-in variant
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, h := range []Handler{
		NewHoldem(),
		NewFiveDraw(),
		NewSevenStud(),
		NewFollowQueen(),
		NewGuts(),
	} {
		// codes are distinct constants, registration cannot collide
		_ = r.Register(h)
	}
	return r
}
