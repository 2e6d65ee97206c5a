package cmd

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	apppipeline "product-media-pipeline/application/pipeline"
	"product-media-pipeline/application/session"
	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/pipeline"

	"github.com/spf13/cobra"
)

var (
	singleListingID   string
	singleProductID   string
	singleTitle       string
	singleDescription string
	singleImages      []string
	singlePreviewDir  string
)

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Generate and upload media for one product",
	Long: `Generate a video and blog for a single product and upload both into
its {listingId}_{productId} folder.

Images can be local files (read and sent inline) or URLs. Re-running
the command for the same product reuses its folder and overwrites the
artifacts, which makes this the retry path for a failed batch row.

Example:
  product-media-pipeline single --listing-id L1 --product-id P1 \
    --title "Running Shoe" --description "Red running shoe" \
    --image shoe-front.jpg --image shoe-side.jpg`,
	RunE: runSingle,
}

func init() {
	rootCmd.AddCommand(singleCmd)
	singleCmd.Flags().StringVar(&singleListingID, "listing-id", "", "Listing id (required)")
	singleCmd.Flags().StringVar(&singleProductID, "product-id", "", "Product id (required)")
	singleCmd.Flags().StringVar(&singleTitle, "title", "", "Product title (required)")
	singleCmd.Flags().StringVar(&singleDescription, "description", "", "Product description")
	singleCmd.Flags().StringArrayVar(&singleImages, "image", nil, "Product image: local file or URL (repeatable)")
	singleCmd.Flags().StringVar(&singlePreviewDir, "preview-dir", "", "Write generated artifacts to this local directory as well")
	singleCmd.MarkFlagRequired("listing-id")
	singleCmd.MarkFlagRequired("product-id")
	singleCmd.MarkFlagRequired("title")
}

func runSingle(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; ensure config/config.yaml exists")
	}

	record := catalog.ProductRecord{
		ListingID:   singleListingID,
		ProductID:   singleProductID,
		Title:       singleTitle,
		Description: singleDescription,
	}
	if err := catalog.ValidateRecord(record); err != nil {
		return err
	}

	for _, img := range singleImages {
		ref, err := resolveImageArg(img)
		if err != nil {
			return err
		}
		record.Images = append(record.Images, ref)
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
	state.Reset(session.ModeSingle)
	state.SetOutputsFolderID(outputsID)

	processor := apppipeline.NewProcessor(generator, client, outputsID, os.Stdout)

	fmt.Fprintf(os.Stdout, "Processing %s (%s)\n", record.Key(), record.Title)
	outcome := processor.Process(ctx, record, nil)
	state.AppendOutcome(outcome)

	if singlePreviewDir != "" && len(outcome.Video) > 0 {
		if err := writePreview(singlePreviewDir, outcome); err != nil {
			fmt.Fprintf(os.Stdout, "Warning: could not write preview: %v\n", err)
		}
	}

	switch outcome.Status {
	case pipeline.StatusSuccess:
		fmt.Fprintf(os.Stdout, "Done: folder %s\n", outcome.FolderID)
		return nil
	default:
		return fmt.Errorf("%s: %w", outcome.Status, outcome.Err)
	}
}

// resolveImageArg turns an --image argument into a reference: local
// files are read and sent inline, anything else is passed as a URL.
func resolveImageArg(arg string) (catalog.ImageRef, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return catalog.ImageRef{}, fmt.Errorf("failed to read image %s: %w", arg, err)
		}
		return catalog.ImageRef{Filename: filepath.Base(arg), Data: data}, nil
	}

	if u, err := url.Parse(arg); err != nil || u.Scheme == "" {
		return catalog.ImageRef{}, fmt.Errorf("image %q is neither a readable file nor a URL", arg)
	}
	return catalog.ImageRef{URL: arg}, nil
}

// writePreview saves the generated artifacts locally so a failed upload
// does not lose them.
func writePreview(dir string, outcome pipeline.RowOutcome) error {
	target := filepath.Join(dir, outcome.Key)
	if err := os.MkdirAll(target, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(target, "video.mp4"), outcome.Video, 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(target, "blog.txt"), []byte(outcome.Blog), 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Preview written to %s\n", target)
	return nil
}
