package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps products in process memory. List returns products in
// insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]Product),
		now:      time.Now,
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareCreate(p)
	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	now := s.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	s.products[p.ID] = clone(p)
	s.order = append(s.order, p.ID)
	return nil
}

// Update implements Store. SellerID and CreatedAt are kept from the stored product.
func (s *MemoryStore) Update(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[p.ID]
	if !ok {
		return fmt.Errorf("updating %s: %w", p.ID, ErrNotFound)
	}
	p.SellerID = existing.SellerID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now().UTC()
	if p.Status == "" {
		p.Status = StatusActive
	}

	s.products[p.ID] = clone(p)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("getting %s: %w", id, ErrNotFound)
	}
	out := clone(&p)
	return &out, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if f.matches(&p) {
			out = append(out, clone(&p))
		}
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	delete(s.products, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func clone(p *Product) Product {
	out := *p
	out.Materials = slices.Clone(p.Materials)
	return out
}
