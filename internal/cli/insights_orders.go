package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/insights"
)

// orderFile is the document read by insights orders.
type orderFile struct {
	Orders []insights.Order `yaml:"orders"`
}

// NewInsightsOrdersCmd creates the insights orders command, which totals
// the impact of exported orders and shows recent emissions by month.
func NewInsightsOrdersCmd() *cobra.Command {
	var (
		file   string
		months int
		output string
	)

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Summarize the carbon footprint of orders by month",
		Example: `  # Emissions of the last six months of orders
  ecoimpact insights orders --file orders.yaml

  # A full year as JSON
  ecoimpact insights orders --file orders.yaml --months 12 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output, config.GetDefaultOutputFormat())
			if err != nil {
				return err
			}
			orders, err := LoadOrders(file)
			if err != nil {
				return err
			}

			summary := insights.SummarizeOrders(orders, months)
			logger.Debug().Ctx(cmd.Context()).
				Int("orders", summary.OrderCount).
				Int("months", len(summary.ByMonth)).
				Msg("summarized orders")

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			return renderOrderSummary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with an orders list")
	cmd.Flags().IntVar(&months, "months", insights.MonthWindow, "number of most recent months to show")
	cmd.Flags().StringVar(&output, "output", "", "output format: table or json (default from config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// LoadOrders reads an orders file.
func LoadOrders(path string) ([]insights.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading orders file: %w", err)
	}
	var doc orderFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing orders file: %w", err)
	}
	if len(doc.Orders) == 0 {
		return nil, errors.New("orders file contains no orders")
	}
	return doc.Orders, nil
}

func renderOrderSummary(w io.Writer, s insights.OrderSummary) error {
	st := newStyler(w)

	fmt.Fprintln(w, st.title("ORDER EMISSIONS"))
	fmt.Fprintf(w, "%s %d\n", st.label("Orders:"), s.OrderCount)
	fmt.Fprintf(w, "%s %s\n", st.label("Total emissions:"), greenops.FormatKg(s.TotalEmissions))
	fmt.Fprintf(w, "%s %s\n", st.label("Average eco score:"), greenops.FormatFloat(s.AvgEcoScore, 1))

	fmt.Fprintln(w)
	fmt.Fprintln(w, st.label("BY MONTH"))
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "Month\tOrders\tEmissions")
	for _, m := range s.ByMonth {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", m.Month, m.Orders, greenops.FormatFloat(m.Emissions, 1))
	}
	return tw.Flush()
}
