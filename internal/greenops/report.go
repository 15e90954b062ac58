package greenops

import (
	"fmt"

	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// Report is a single estimate as shown to a seller: the rounded result, its
// band and equivalencies, and optionally the full breakdown.
type Report struct {
	Category    string            `json:"category"`
	Result      impact.Result     `json:"result"`
	Band        ImpactBand        `json:"band"`
	Equivalency EquivalencyOutput `json:"equivalency"`
	Breakdown   *impact.Breakdown `json:"breakdown,omitempty"`
}

// NewReport builds the report for b. The breakdown is attached only when
// explain is set. A result that overflowed to infinity is rejected with
// impact.ErrCalculationOverflow.
func NewReport(b impact.Breakdown, explain bool) (Report, error) {
	res := b.Result()
	if err := res.Validate(); err != nil {
		return Report{}, fmt.Errorf("estimating %s: %w", b.Category, err)
	}

	eq, err := Calculate(res.Footprint)
	if err != nil {
		eq = EquivalencyOutput{IsEmpty: true}
	}
	rep := Report{
		Category:    b.Category,
		Result:      res,
		Band:        Band(res.Footprint),
		Equivalency: eq,
	}
	if explain {
		rep.Breakdown = &b
	}
	return rep, nil
}
