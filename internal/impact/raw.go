package impact

import (
	"strconv"
	"strings"
)

// RawDimensions are form-entered dimensions in centimetres.
type RawDimensions struct {
	Length string `json:"length" yaml:"length"`
	Width  string `json:"width"  yaml:"width"`
	Height string `json:"height" yaml:"height"`
}

// RawDraft is estimator input as typed into a form: every numeric field is
// free text.
type RawDraft struct {
	Category   string        `json:"category"   yaml:"category"`
	Weight     string        `json:"weight"     yaml:"weight"`
	Price      string        `json:"price"      yaml:"price"`
	Dimensions RawDimensions `json:"dimensions" yaml:"dimensions"`
	Materials  []string      `json:"materials"  yaml:"materials"`
}

// Draft converts r into a typed Draft. Fields that are empty or do not parse
// as finite numbers are left absent so the estimator applies its defaults.
// Dimensions are kept only when all three parse.
func (r RawDraft) Draft() Draft {
	d := Draft{
		Category:    r.Category,
		WeightKg:    ParseNumber(r.Weight),
		PriceAmount: ParseNumber(r.Price),
		Materials:   append([]string(nil), r.Materials...),
	}

	l, w, h := ParseNumber(r.Dimensions.Length), ParseNumber(r.Dimensions.Width), ParseNumber(r.Dimensions.Height)
	if l != nil && w != nil && h != nil {
		d.Dimensions = &Dimensions{Length: *l, Width: *w, Height: *h}
	}
	return d
}

// ParseNumber parses s as a finite float. It returns nil for empty or
// malformed input rather than an error.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return nil
	}
	return &v
}

// Float returns a pointer to v, for building Drafts in code.
func Float(v float64) *float64 {
	return &v
}
