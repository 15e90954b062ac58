// Package catalog persists marketplace products together with their
// estimated environmental impact.
package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// Product statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is a persisted marketplace listing.
type Product struct {
	ID            string            `gorm:"primaryKey;size:26"           json:"id"`
	SellerID      string            `gorm:"index;not null"               json:"seller_id"`
	Name          string            `gorm:"not null"                     json:"name"`
	Category      string            `gorm:"index;not null"               json:"category"`
	Price         decimal.Decimal   `gorm:"type:decimal(10,2)"           json:"price"`
	StockQuantity int               `gorm:"not null;default:0"           json:"stock_quantity"`
	Image         string            `gorm:"type:text"                    json:"image"`
	Description   string            `gorm:"type:text"                    json:"description"`
	Status        string            `gorm:"index;default:active"         json:"status"`
	WeightKg      float64           `gorm:"column:weight_kg"             json:"weight_kg"`
	Dimensions    impact.Dimensions `gorm:"embedded;embeddedPrefix:dim_" json:"dimensions"`
	Materials     Materials         `gorm:"type:text"                    json:"materials"`

	impact.Result `gorm:"embedded"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Emissions is material plus shipping CO2, the figure used to rank products.
func (p *Product) Emissions() float64 {
	return p.MaterialCO2 + p.ShippingCO2
}

// Draft rebuilds the estimator input for p.
func (p *Product) Draft() impact.Draft {
	d := impact.Draft{
		Category:    p.Category,
		WeightKg:    impact.Float(p.WeightKg),
		PriceAmount: impact.Float(p.Price.InexactFloat64()),
		Materials:   append([]string(nil), p.Materials...),
	}
	if p.Dimensions.Complete() {
		dims := p.Dimensions
		d.Dimensions = &dims
	}
	return d
}

// Materials is stored as a JSON array in a text column.
type Materials []string

// Scan implements sql.Scanner.
func (m *Materials) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal materials value: %v", value)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal materials value: %w", err)
	}
	*m = out
	return nil
}

// Value implements driver.Valuer.
func (m Materials) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
