// Package cli implements the ecoimpact command line interface.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the ecoimpact CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.Getwd)
}

// NewRootCmdWithArgs creates the root command with an explicit working
// directory lookup, used to find a project-local .ecoimpact directory.
func NewRootCmdWithArgs(ver string, getwd func() (string, error)) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:     "ecoimpact",
		Short:   "Environmental impact estimator for marketplace products",
		Long:    "ecoimpact: estimate the CO2 footprint and eco score of marketplace products",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := getwd()
			if err != nil {
				wd = ""
			}
			config.SetResolvedProjectDir(config.ResolveProjectDir(projectDir, wd))

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory containing .ecoimpact/config.yaml (default: nearest ancestor)")
	cmd.PersistentFlags().String("reference", "",
		"reference table YAML file (default: embedded tables, or reference.file from config)")

	cmd.AddCommand(
		NewEstimateCmd(),
		NewReferenceCmd(),
		NewInsightsCmd(),
		NewServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Estimate a bamboo bag weighing 500 g
  ecoimpact estimate --category Bag --weight 500g --material Bamboo

  # Explain how the eco score was reached
  ecoimpact estimate --category Electronics --weight 2 --price 40 --explain

  # Estimate many drafts from a YAML file
  ecoimpact estimate batch --file drafts.yaml --output json

  # List reference categories
  ecoimpact reference categories

  # Summarize the carbon footprint of a product catalog
  ecoimpact insights --store-driver sqlite --store-dsn products.db

  # Run the HTTP API
  ecoimpact serve --addr :8080

  # Initialize configuration
  ecoimpact config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}

// loadReference returns the reference tables named by --reference, falling
// back to the configured reference file and then the embedded tables.
func loadReference(cmd *cobra.Command) (*impact.Reference, error) {
	path, _ := cmd.Flags().GetString("reference")
	if path == "" {
		path = config.GetGlobalConfig().Reference.File
	}
	return impact.LoadReferenceOrDefault(path)
}
