package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// NewReferenceCmd creates the reference command group for inspecting and
// validating reference tables.
func NewReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Inspect and validate reference tables",
	}
	cmd.AddCommand(newReferenceCategoriesCmd(), newReferenceMaterialsCmd(), newReferenceValidateCmd())
	return cmd
}

func newReferenceCategoriesCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List category factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output, config.GetDefaultOutputFormat())
			if err != nil {
				return err
			}
			ref, err := loadReference(cmd)
			if err != nil {
				return err
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), ref.Categories())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(w, "Name\tBase Footprint\tComplexity\tTransport\tAvg Price")
			fmt.Fprintln(w, "----\t--------------\t----------\t---------\t---------")
			for _, c := range ref.Categories() {
				marker := ""
				if c.Name == ref.DefaultCategory() {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%g\t%g\t%g\t%g\n",
					c.Name, marker, c.BaseFootprint, c.Complexity, c.TransportMultiplier, ref.AveragePrice(c.Name))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output format: table or json (default from config)")
	return cmd
}

func newReferenceMaterialsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List material factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output, config.GetDefaultOutputFormat())
			if err != nil {
				return err
			}
			ref, err := loadReference(cmd)
			if err != nil {
				return err
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), ref.Materials())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(w, "Name\tCO2 Factor\tEco Bonus")
			fmt.Fprintln(w, "----\t----------\t---------")
			for _, m := range ref.Materials() {
				fmt.Fprintf(w, "%s\t%g\t%g\n", m.Name, m.CO2Factor, m.EcoBonus)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output format: table or json (default from config)")
	return cmd
}

func newReferenceValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a reference table file",
		Example: `  # Check a replacement table before pointing reference.file at it
  ecoimpact reference validate --file factors.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := impact.LoadReference(file)
			if err != nil {
				return err
			}
			cmd.Printf("Reference tables are valid (schema %s, %d categories, %d materials)\n",
				ref.SchemaVersion(), len(ref.Categories()), len(ref.Materials()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "reference YAML file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
