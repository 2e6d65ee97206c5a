package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	apppipeline "product-media-pipeline/application/pipeline"
	"product-media-pipeline/application/session"
	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/pipeline"
	infracatalog "product-media-pipeline/infrastructure/catalog"

	"github.com/spf13/cobra"
)

var (
	batchCSVPath    string
	batchImagesPath string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate and upload media for every product in a CSV",
	Long: `Process a products CSV as one batch run.

Each row is generated and uploaded independently: a failed row is
recorded in the report and the batch continues with the next row.
The optional images JSON supplies image URLs for rows that carry none.

The input set is validated up front; missing identity or title fields
and duplicate (listingId, productId) pairs reject the whole batch
before any generation call is made.

Example:
  product-media-pipeline batch --csv products.csv
  product-media-pipeline batch --csv products.csv --images images.json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "Path to the products CSV (required)")
	batchCmd.Flags().StringVar(&batchImagesPath, "images", "", "Path to the companion images JSON (optional)")
	batchCmd.MarkFlagRequired("csv")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; ensure config/config.yaml exists")
	}

	csvFile, err := os.Open(batchCSVPath)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer csvFile.Close()

	records, err := infracatalog.ReadProducts(csvFile)
	if err != nil {
		return err
	}

	var index catalog.ImageIndex
	if batchImagesPath != "" {
		jsonFile, err := os.Open(batchImagesPath)
		if err != nil {
			return fmt.Errorf("failed to open images json: %w", err)
		}
		index, err = infracatalog.ReadImageIndex(jsonFile)
		jsonFile.Close()
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	client, err := buildDriveClient(ctx, cfg)
	if err != nil {
		return err
	}
	outputsID, err := ensureOutputsFolder(ctx, client, cfg)
	if err != nil {
		return err
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	state := session.NewStore()
	state.Reset(session.ModeBatch)
	state.SetOutputsFolderID(outputsID)
	state.SetCSVRef(batchCSVPath)

	processor := apppipeline.NewProcessor(generator, client, outputsID, os.Stdout)
	orchestrator := apppipeline.NewOrchestrator(processor, state, os.Stdout)

	// Ctrl-C requests a stop after the current record; a second signal
	// kills the process the usual way.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stdout, "Stop requested; finishing current record...")
		orchestrator.Stop()
		signal.Stop(sigCh)
	}()

	report, err := orchestrator.RunBatch(ctx, records, index)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

// printReport renders the per-row outcome table and summary counts.
func printReport(w io.Writer, report *pipeline.BatchRunReport) {
	fmt.Fprintf(w, "Batch run %s\n", report.RunID)
	for _, o := range report.Outcomes {
		switch {
		case o.Succeeded():
			fmt.Fprintf(w, "  %-24s %-18s folder=%s\n", o.Key, o.Status, o.FolderID)
		case o.Err != nil:
			fmt.Fprintf(w, "  %-24s %-18s %v\n", o.Key, o.Status, o.Err)
		default:
			fmt.Fprintf(w, "  %-24s %-18s\n", o.Key, o.Status)
		}
	}

	succeeded, generationFailed, uploadFailed := report.Counts()
	fmt.Fprintf(w, "\n%d succeeded, %d generation failures, %d upload failures\n",
		succeeded, generationFailed, uploadFailed)
}
