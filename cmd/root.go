package cmd

import (
	"fmt"
	"os"

	"product-media-pipeline/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "product-media-pipeline",
	Short: "Generate and distribute product videos and blogs",
	Long: `product-media-pipeline turns eCommerce product data into generated
media and files it into Google Drive, one folder per product:

  - Generate a video and blog text per product via the AI backend
  - Process a whole CSV batch with per-row failure isolation
  - Upload artifacts into {listingId}_{productId} folders

Example:
  product-media-pipeline batch --csv products.csv --images images.json`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
