// Package draft manages the seller-side lifecycle of a product draft: the
// form as typed, automatic impact calculation, validation and submission to
// the catalog.
package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// Field names a scalar form field.
type Field string

// Form fields.
const (
	FieldName          Field = "name"
	FieldCategory      Field = "category"
	FieldPrice         Field = "price"
	FieldStockQuantity Field = "stock_quantity"
	FieldImage         Field = "image"
	FieldDescription   Field = "description"
	FieldStatus        Field = "status"
	FieldWeight        Field = "weight"
	FieldEcoScore      Field = "eco_score"
	FieldFootprint     Field = "footprint"
	FieldMaterialCO2   Field = "material_co2"
	FieldShippingCO2   Field = "shipping_co2"
)

// Axis names one of the three product dimensions.
type Axis string

// Dimension axes.
const (
	AxisLength Axis = "length"
	AxisWidth  Axis = "width"
	AxisHeight Axis = "height"
)

// Text is a form value. In JSON it may be written as a string or a number;
// null decodes to the empty string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("form value must be a string or a number: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) trimmed() string {
	return strings.TrimSpace(string(t))
}

// FormDimensions are the dimension inputs in centimetres.
type FormDimensions struct {
	Length Text `json:"length" yaml:"length"`
	Width  Text `json:"width"  yaml:"width"`
	Height Text `json:"height" yaml:"height"`
}

// Form is a product draft as entered by a seller. The four derived impact
// fields are written by automatic calculation or typed by hand.
type Form struct {
	Name          Text           `json:"name"           yaml:"name"`
	Category      Text           `json:"category"       yaml:"category"`
	Price         Text           `json:"price"          yaml:"price"`
	StockQuantity Text           `json:"stock_quantity" yaml:"stock_quantity"`
	Image         Text           `json:"image"          yaml:"image"`
	Description   Text           `json:"description"    yaml:"description"`
	Status        Text           `json:"status"         yaml:"status"`
	Weight        Text           `json:"weight"         yaml:"weight"`
	Dimensions    FormDimensions `json:"dimensions"     yaml:"dimensions"`
	Materials     []string       `json:"materials"      yaml:"materials"`

	EcoScore    Text `json:"eco_score"    yaml:"eco_score"`
	Footprint   Text `json:"footprint"    yaml:"footprint"`
	MaterialCO2 Text `json:"material_co2" yaml:"material_co2"`
	ShippingCO2 Text `json:"shipping_co2" yaml:"shipping_co2"`
}

// EmptyForm returns the form an add flow starts with.
func EmptyForm() Form {
	return Form{Status: catalog.StatusActive, Materials: []string{}}
}

// FormFromProduct pre-populates a form from a persisted product.
func FormFromProduct(p *catalog.Product) Form {
	f := Form{
		Name:          Text(p.Name),
		Category:      Text(p.Category),
		Price:         Text(p.Price.String()),
		StockQuantity: Text(strconv.Itoa(p.StockQuantity)),
		Image:         Text(p.Image),
		Description:   Text(p.Description),
		Status:        Text(p.Status),
		Weight:        formatNumber(p.WeightKg),
		Dimensions: FormDimensions{
			Length: formatNumber(p.Dimensions.Length),
			Width:  formatNumber(p.Dimensions.Width),
			Height: formatNumber(p.Dimensions.Height),
		},
		Materials:   append([]string{}, p.Materials...),
		EcoScore:    Text(strconv.FormatFloat(p.EcoScore, 'f', -1, 64)),
		Footprint:   Text(strconv.FormatFloat(p.Footprint, 'f', -1, 64)),
		MaterialCO2: Text(strconv.FormatFloat(p.MaterialCO2, 'f', -1, 64)),
		ShippingCO2: Text(strconv.FormatFloat(p.ShippingCO2, 'f', -1, 64)),
	}
	if f.Status == "" {
		f.Status = catalog.StatusActive
	}
	return f
}

// formatNumber renders v for a form, leaving unset (zero) measurements empty.
func formatNumber(v float64) Text {
	if v == 0 {
		return ""
	}
	return Text(strconv.FormatFloat(v, 'f', -1, 64))
}

// Raw returns the estimator input carried by the form.
func (f *Form) Raw() impact.RawDraft {
	return impact.RawDraft{
		Category: string(f.Category),
		Weight:   string(f.Weight),
		Price:    string(f.Price),
		Dimensions: impact.RawDimensions{
			Length: string(f.Dimensions.Length),
			Width:  string(f.Dimensions.Width),
			Height: string(f.Dimensions.Height),
		},
		Materials: f.Materials,
	}
}

func (f *Form) field(name Field) (*Text, bool) {
	switch name {
	case FieldName:
		return &f.Name, true
	case FieldCategory:
		return &f.Category, true
	case FieldPrice:
		return &f.Price, true
	case FieldStockQuantity:
		return &f.StockQuantity, true
	case FieldImage:
		return &f.Image, true
	case FieldDescription:
		return &f.Description, true
	case FieldStatus:
		return &f.Status, true
	case FieldWeight:
		return &f.Weight, true
	case FieldEcoScore:
		return &f.EcoScore, true
	case FieldFootprint:
		return &f.Footprint, true
	case FieldMaterialCO2:
		return &f.MaterialCO2, true
	case FieldShippingCO2:
		return &f.ShippingCO2, true
	default:
		return nil, false
	}
}

func (f *Form) axis(a Axis) (*Text, bool) {
	switch a {
	case AxisLength:
		return &f.Dimensions.Length, true
	case AxisWidth:
		return &f.Dimensions.Width, true
	case AxisHeight:
		return &f.Dimensions.Height, true
	default:
		return nil, false
	}
}

// triggersCalculation reports whether any estimator input worth reacting to is set.
func (f *Form) triggersCalculation() bool {
	return f.Category != "" || f.Weight != "" || len(f.Materials) > 0
}

func (f *Form) clone() Form {
	out := *f
	out.Materials = append([]string{}, f.Materials...)
	return out
}
