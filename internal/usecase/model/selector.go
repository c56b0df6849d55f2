// Package model owns the process-wide choice of active embedding store.
package model

import (
	"fmt"
	"sync"

	"github.com/hibik17/ais-search/internal/domain"
)

// LoadFunc loads the embedding store for a variant ("dm", "dbow").
type LoadFunc func(variant string) (domain.EmbeddingStore, error)

// Selector holds the currently active embedding store. Only one store is
// resident at a time; switching replaces it. A switch is serialized against
// concurrent queries, which hold a snapshot of the store they started with.
type Selector struct {
	load LoadFunc

	mu      sync.RWMutex
	current string
	store   domain.EmbeddingStore
}

// NewSelector creates a selector. The default variant is loaded lazily on
// the first Select call.
func NewSelector(defaultVariant string, load LoadFunc) *Selector {
	return &Selector{load: load, current: defaultVariant}
}

// Current returns the active variant name.
func (s *Selector) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Select returns the embedding store for the variant. An empty variant or
// the current one returns the already-loaded store. A load failure leaves
// the previously active store valid; there is no partial transition.
func (s *Selector) Select(variant string) (domain.EmbeddingStore, error) {
	s.mu.RLock()
	if (variant == "" || variant == s.current) && s.store != nil {
		st := s.store
		s.mu.RUnlock()
		return st, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another goroutine may have loaded while we waited.
	if (variant == "" || variant == s.current) && s.store != nil {
		return s.store, nil
	}
	if variant == "" {
		variant = s.current
	}

	st, err := s.load(variant)
	if err != nil {
		return nil, fmt.Errorf("select model %q: %w", variant, err)
	}
	s.current = variant
	s.store = st
	return st, nil
}
