package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ecobazaarx/ecoimpact/internal/api"
	"github.com/ecobazaarx/ecoimpact/internal/catalog"
	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/metrics"
)

// NewServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func NewServeCmd() *cobra.Command {
	var (
		addr  string
		store storeFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the estimator, catalog and insights HTTP API",
		Example: `  # In-memory catalog on the default address
  ecoimpact serve

  # Persist products in sqlite
  ecoimpact serve --addr :9090 --store-driver sqlite --store-dsn products.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			serverCfg := cfg.Server
			if addr != "" {
				serverCfg.Addr = addr
			}

			ref, err := loadReference(cmd)
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

			router, err := api.NewRouter(api.Deps{
				Reference: ref,
				Store:     s,
				Metrics:   metrics.New(),
				Logger:    logger,
				Estimator: cfg.Estimator,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, serverCfg, router, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	store.register(cmd)

	return cmd
}
