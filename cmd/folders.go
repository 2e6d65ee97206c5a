package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Bootstrap the remote folder layout",
	Long: `Create the outputs subfolder under the configured Drive folder if it
does not exist yet and print its id.

Safe to run repeatedly; an existing folder is reused, never duplicated.`,
	RunE: runFolders,
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded; ensure config/config.yaml exists")
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

	fmt.Fprintf(os.Stdout, "outputs folder: %s\n", outputsID)
	return nil
}
