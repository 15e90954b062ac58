package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/insights"
)

// storeFlags select a product store, overriding the store config section.
type storeFlags struct {
	driver string
	dsn    string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "store-driver", "", "product store: memory, sqlite or postgres (default from config)")
	cmd.Flags().StringVar(&f.dsn, "store-dsn", "", "store data source name, e.g. a sqlite file path")
}

// resolve applies the flags over the configured store.
func (f *storeFlags) resolve(cfg config.StoreConfig) config.StoreConfig {
	if f.driver != "" {
		cfg.Driver = f.driver
	}
	if f.dsn != "" {
		cfg.DSN = f.dsn
	}
	return cfg
}

// NewInsightsCmd creates the insights command, which summarizes the carbon
// footprint of the products in a store.
func NewInsightsCmd() *cobra.Command {
	var (
		store  storeFlags
		filter catalog.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize the carbon footprint of stored products",
		Example: `  # Whole catalog
  ecoimpact insights --store-driver sqlite --store-dsn products.db

  # One seller's products as JSON
  ecoimpact insights --store-driver sqlite --store-dsn products.db --seller s-42 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			format, err := resolveOutputFormat(output, cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}

			s, err := catalog.Open(store.resolve(cfg.Store), logger)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					logger.Warn().Err(closeErr).Msg("closing product store")
				}
			}()

			products, err := s.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing products: %w", err)
			}
			summary := insights.Summarize(products)

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			return renderInsights(cmd.OutOrStdout(), summary)
		},
	}

	store.register(cmd)
	cmd.Flags().StringVar(&filter.SellerID, "seller", "", "only products of this seller")
	cmd.Flags().StringVar(&filter.Category, "category", "", "only products of this category")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only products with this status")
	cmd.Flags().StringVar(&output, "output", "", "output format: table or json (default from config)")

	cmd.AddCommand(NewInsightsOrdersCmd())
	return cmd
}

func renderInsights(w io.Writer, s insights.Summary) error {
	st := newStyler(w)

	if s.ProductCount == 0 {
		_, err := fmt.Fprintln(w, "No products found.")
		return err
	}

	fmt.Fprintln(w, st.title("CARBON INSIGHTS"))
	fmt.Fprintf(w, "%s %d\n", st.label("Products:"), s.ProductCount)
	fmt.Fprintf(w, "%s %s (material %s%%, shipping %s%%)\n", st.label("Total emissions:"),
		greenops.FormatKg(s.TotalEmissions),
		greenops.FormatFloat(s.MaterialSharePct, 1), greenops.FormatFloat(s.ShippingSharePct, 1))
	fmt.Fprintf(w, "%s %s  %s\n", st.label("Average per product:"),
		greenops.FormatKg(s.AvgEmissionsPerProduct), st.band(s.AverageBand))
	fmt.Fprintf(w, "%s %s\n", st.label("Average eco score:"), greenops.FormatFloat(s.AvgEcoScore, 1))
	fmt.Fprintf(w, "%s %d (over %g kg CO2e)\n", st.label("High emission products:"),
		s.HighEmissionCount, insights.HighEmissionKg)
	if !s.Equivalency.IsEmpty {
		fmt.Fprintln(w, s.Equivalency.DisplayText)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label("BY CATEGORY"))
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Category\tProducts\tEmissions\tAvg Eco Score")
	for _, c := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", c.Name, c.Count,
			greenops.FormatFloat(c.Emissions, 1), greenops.FormatFloat(c.AvgEcoScore, 1))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := renderRanking(w, st, "TOP EMITTERS", s.TopOffenders); err != nil {
		return err
	}
	return renderRanking(w, st, "MOST ECO-FRIENDLY", s.EcoFriendly)
}

func renderRanking(w io.Writer, st styler, title string, items []insights.ProductImpact) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label(title))
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Product\tCategory\tEmissions\tEco Score")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Category,
			greenops.FormatFloat(p.Emissions, 1), greenops.FormatFloat(p.EcoScore, 1))
	}
	return tw.Flush()
}
