package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/engine"
	"github.com/ecobazaarx/ecoimpact/internal/greenops"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

// draftFile is the document read by estimate batch. A bare YAML (or JSON)
// list of drafts is accepted as well.
type draftFile struct {
	Drafts []impact.Draft `yaml:"drafts"`
}

// batchParams holds the flags of the estimate batch command.
type batchParams struct {
	file        string
	batchSize   int
	concurrency int
	output      string
}

// NewEstimateBatchCmd creates the estimate batch command.
func NewEstimateBatchCmd() *cobra.Command {
	var params batchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Estimate many product drafts from a YAML or JSON file",
		Example: `  # drafts.yaml:
  #   drafts:
  #     - category: Bag
  #       weight_kg: 0.5
  #       materials: [Bamboo]
  ecoimpact estimate batch --file drafts.yaml --concurrency 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimateBatch(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.file, "file", "f", "", "file containing product drafts (required)")
	cmd.Flags().IntVar(&params.batchSize, "batch-size", 0, "drafts per batch (default from config)")
	cmd.Flags().IntVar(&params.concurrency, "concurrency", 0, "batches estimated in parallel (default from config)")
	cmd.Flags().StringVar(&params.output, "output", "", "output format: table or json (default from config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func executeEstimateBatch(cmd *cobra.Command, params batchParams) error {
	cfg := config.GetGlobalConfig()
	format, err := resolveOutputFormat(params.output, cfg.Output.DefaultFormat)
	if err != nil {
		return err
	}
	drafts, err := LoadDrafts(params.file)
	if err != nil {
		return err
	}
	ref, err := loadReference(cmd)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithConfig(cfg.Estimator)}
	if params.batchSize > 0 {
		opts = append(opts, engine.WithBatchSize(params.batchSize))
	}
	if params.concurrency > 0 {
		opts = append(opts, engine.WithConcurrency(params.concurrency))
	}
	if isWriterTerminal(cmd.ErrOrStderr()) {
		opts = append(opts, engine.WithProgress(progressPrinter(cmd.ErrOrStderr())))
	}

	estimator, err := engine.NewBatchEstimator(ref, opts...)
	if err != nil {
		return err
	}
	results, err := estimator.Estimate(cmd.Context(), drafts)
	if err != nil {
		return fmt.Errorf("estimating drafts: %w", err)
	}

	if format == outputJSON {
		return writeJSON(cmd.OutOrStdout(), results)
	}
	return renderBatch(cmd.OutOrStdout(), results)
}

// LoadDrafts reads drafts from path. The file holds either a "drafts" list
// or a bare list.
func LoadDrafts(path string) ([]impact.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading drafts file %s: %w", path, err)
	}

	var doc draftFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var list []impact.Draft
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			return nil, fmt.Errorf("parsing drafts file %s: %w", path, err)
		}
		doc.Drafts = list
	}
	if len(doc.Drafts) == 0 {
		return nil, errors.New("drafts file contains no drafts")
	}
	return doc.Drafts, nil
}

// progressPrinter redraws a single progress line on w, with an estimate of
// the time left until the last batch completes.
func progressPrinter(w io.Writer) engine.ProgressFunc {
	return func(s engine.ProgressSnapshot) {
		eta := ""
		if !s.IsComplete() {
			eta = fmt.Sprintf(", ~%s left", s.EstimatedTimeRemaining().Round(time.Millisecond))
		}
		_, _ = fmt.Fprintf(w, "\rEstimating: %d/%d drafts (%.0f%%)%-16s",
			s.ProcessedItems, s.TotalItems, s.PercentComplete, eta)
		if s.IsComplete() {
			_, _ = fmt.Fprintln(w)
		}
	}
}

func renderBatch(w io.Writer, results []engine.Estimate) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "#\tCategory\tMaterial CO2\tShipping CO2\tFootprint\tEco Score\tImpact")
	fmt.Fprintln(tw, "-\t--------\t------------\t------------\t---------\t---------\t------")

	var total float64
	for _, e := range results {
		total += e.Result.Footprint
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Index+1,
			e.Breakdown.Category,
			greenops.FormatFloat(e.Result.MaterialCO2, 1),
			greenops.FormatFloat(e.Result.ShippingCO2, 1),
			greenops.FormatFloat(e.Result.Footprint, 1),
			greenops.FormatFloat(e.Result.EcoScore, 1),
			greenops.Band(e.Result.Footprint),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d drafts, total footprint %s\n", len(results), greenops.FormatKg(total))
	return err
}
