package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/ecobazaarx/ecoimpact/internal/config"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// Filter narrows List results. Empty fields match everything.
type Filter struct {
	SellerID string
	Category string
	Status   string
}

func (f Filter) matches(p *Product) bool {
	return (f.SellerID == "" || p.SellerID == f.SellerID) &&
		(f.Category == "" || p.Category == f.Category) &&
		(f.Status == "" || p.Status == f.Status)
}

// Store persists products.
type Store interface {
	// Create assigns an id and timestamps and stores p.
	Create(ctx context.Context, p *Product) error
	// Update replaces the mutable fields of an existing product.
	Update(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, f Filter) ([]Product, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg config.StoreConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case "", config.StoreDriverMemory:
		return NewMemoryStore(), nil
	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		return OpenGorm(cfg.Driver, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newID() string {
	return ulid.Make().String()
}

// prepareCreate fills defaults shared by every store implementation.
func prepareCreate(p *Product) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
}
