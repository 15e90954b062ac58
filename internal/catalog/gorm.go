package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecobazaarx/ecoimpact/internal/config"
)

// GormStore persists products in sqlite or postgres.
type GormStore struct {
	db *gorm.DB
}

// OpenGorm connects to driver (sqlite or postgres) at dsn and migrates the
// product table.
func OpenGorm(driver, dsn string, log zerolog.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.StoreDriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.StoreDriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(log.With().Str("component", "catalog").Str("driver", driver).Logger()),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open connection and migrates the product table.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Product{}); err != nil {
		return nil, fmt.Errorf("migrating products: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Create implements Store.
func (s *GormStore) Create(ctx context.Context, p *Product) error {
	prepareCreate(p)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("creating product: %w", err)
	}
	return nil
}

// Update implements Store. SellerID and CreatedAt are kept from the stored product.
func (s *GormStore) Update(ctx context.Context, p *Product) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Product
		if err := tx.First(&existing, "id = ?", p.ID).Error; err != nil {
			return wrapNotFound("updating", p.ID, err)
		}
		p.SellerID = existing.SellerID
		p.CreatedAt = existing.CreatedAt
		if p.Status == "" {
			p.Status = StatusActive
		}
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("updating %s: %w", p.ID, err)
		}
		return nil
	})
}

// Get implements Store.
func (s *GormStore) Get(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound("getting", id, err)
	}
	return &p, nil
}

// List implements Store. Products are ordered by creation time.
func (s *GormStore) List(ctx context.Context, f Filter) ([]Product, error) {
	q := s.db.WithContext(ctx).Order("created_at").Order("id")
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []Product
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func wrapNotFound(op, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}

// gormLogger routes gorm diagnostics through zerolog. SQL statements are
// logged at trace level, slow queries at warn and failures at error.
type gormLogger struct {
	log           zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(log zerolog.Logger) *gormLogger {
	return &gormLogger{log: log, level: logger.Warn, slowThreshold: 200 * time.Millisecond}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.log.Info().Msgf(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.log.Warn().Msgf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.log.Error().Msgf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.Trace().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
