package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// estimateParams holds the flags of the estimate command.
type estimateParams struct {
	category   string
	weight     string
	price      string
	dimensions string
	materials  []string
	explain    bool
	output     string
}

// NewEstimateCmd creates the estimate command, which estimates one product
// draft described by flags. Its batch subcommand estimates drafts from a file.
func NewEstimateCmd() *cobra.Command {
	var params estimateParams

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the environmental impact of a product",
		Long: `Estimates material CO2, shipping CO2, total footprint and eco score for a
product draft. Unknown categories use the default category's factors; a
missing, zero or negative weight counts as 1 kg. A weight or set of
dimensions so large that the footprint overflows is an error.`,
		Example: `  # A 500 g bamboo bag
  ecoimpact estimate --category Bag --weight 500g --material Bamboo

  # A laptop with dimensions and a mixed material list
  ecoimpact estimate --category Laptop --weight 2.1 --price 900 \
    --dimensions 35x24x2 --material Aluminum --material Plastic --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimate(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.category, "category", "", "product category (e.g. Bag, Laptop)")
	cmd.Flags().StringVar(&params.weight, "weight", "", "product weight, kg by default (e.g. 1.2, 500g, 2lb)")
	cmd.Flags().StringVar(&params.price, "price", "", "product price")
	cmd.Flags().StringVar(&params.dimensions, "dimensions", "", "outer dimensions in cm as LxWxH")
	cmd.Flags().StringArrayVar(&params.materials, "material", nil, "material the product is made of (repeatable)")
	cmd.Flags().BoolVar(&params.explain, "explain", false, "show how the estimate was calculated")
	cmd.Flags().StringVar(&params.output, "output", "", "output format: table or json (default from config)")

	cmd.AddCommand(NewEstimateBatchCmd())
	return cmd
}

func executeEstimate(cmd *cobra.Command, params estimateParams) error {
	format, err := resolveOutputFormat(params.output, config.GetDefaultOutputFormat())
	if err != nil {
		return err
	}
	draft, err := BuildDraft(params.category, params.weight, params.price, params.dimensions, params.materials)
	if err != nil {
		return err
	}
	ref, err := loadReference(cmd)
	if err != nil {
		return err
	}

	b := ref.Explain(draft)
	logger.Debug().Ctx(cmd.Context()).
		Str("category", b.Category).
		Bool("category_fallback", b.CategoryFallback).
		Float64("footprint", b.Footprint).
		Msg("estimated draft")

	rep, err := greenops.NewReport(b, params.explain)
	if err != nil {
		return err
	}
	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	return renderEstimate(cmd.OutOrStdout(), rep)
}

// BuildDraft converts command line values into a Draft. Empty values and
// negative weights are left absent so the estimator applies its defaults.
// Values that were given but cannot be parsed are errors.
func BuildDraft(category, weight, price, dimensions string, materials []string) (impact.Draft, error) {
	d := impact.Draft{Category: category, Materials: materials}

	if weight != "" {
		kg, err := impact.ParseWeight(weight)
		switch {
		case errors.Is(err, impact.ErrNegativeValue):
		case err != nil:
			return impact.Draft{}, fmt.Errorf("invalid --weight %q: %w", weight, err)
		default:
			d.WeightKg = &kg
		}
	}
	if price != "" {
		p := impact.ParseNumber(price)
		if p == nil {
			return impact.Draft{}, fmt.Errorf("invalid --price %q", price)
		}
		d.PriceAmount = p
	}
	if dimensions != "" {
		dims, err := ParseDimensions(dimensions)
		if err != nil {
			return impact.Draft{}, err
		}
		d.Dimensions = &dims
	}
	return d, nil
}

// ParseDimensions parses "LxWxH" in centimetres, e.g. "30x20x10".
func ParseDimensions(s string) (impact.Dimensions, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 3 {
		return impact.Dimensions{}, fmt.Errorf("invalid --dimensions %q: expected LxWxH", s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v := impact.ParseNumber(p)
		if v == nil {
			return impact.Dimensions{}, fmt.Errorf("invalid --dimensions %q: %q is not a number", s, p)
		}
		if *v < 0 {
			return impact.Dimensions{}, errors.New("invalid --dimensions: values must not be negative")
		}
		vals[i] = *v
	}
	return impact.Dimensions{Length: vals[0], Width: vals[1], Height: vals[2]}, nil
}
