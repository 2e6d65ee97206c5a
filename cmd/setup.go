package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"product-media-pipeline/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	Select(message string, options []string, defaultValue string) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through selecting an authentication mode,
entering Google Drive settings and pointing at the AI generation
backend.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to product-media-pipeline setup!")
	fmt.Println()

	cfg := &config.Config{}

	if err := promptGoogle(prompter, cfg); err != nil {
		return err
	}
	if err := promptGeneration(prompter, cfg); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Configuration written to %s\n", configPath)
	fmt.Println("Secrets can also be supplied via .env (see DRIVE_* and GENERATION_* variables).")
	return nil
}

func promptGoogle(prompter Prompter, cfg *config.Config) error {
	folderID, err := prompter.Input("Google Drive folder id (pipeline root):", "")
	if err != nil {
		return err
	}
	cfg.Google.DriveFolderID = folderID

	mode, err := prompter.Select("Authentication mode:", []string{"oauth", "service_account"}, "oauth")
	if err != nil {
		return err
	}
	cfg.Google.AuthMode = mode

	if mode == "oauth" {
		if cfg.Google.OAuth.ClientID, err = prompter.Input("OAuth client id:", ""); err != nil {
			return err
		}
		if cfg.Google.OAuth.ClientSecret, err = prompter.Input("OAuth client secret:", ""); err != nil {
			return err
		}
		if cfg.Google.OAuth.RefreshToken, err = prompter.Input("OAuth refresh token:", ""); err != nil {
			return err
		}
		return nil
	}

	cfg.Google.ServiceAccountFile, err = prompter.Input("Service account key file:", "config/service-account.json")
	return err
}

func promptGeneration(prompter Prompter, cfg *config.Config) error {
	endpoint, err := prompter.Input("Generation backend endpoint:", "")
	if err != nil {
		return err
	}
	cfg.Generation.Endpoint = endpoint

	apiKey, err := prompter.Input("Generation API key (leave empty to use GENERATION_API_KEY):", "")
	if err != nil {
		return err
	}
	cfg.Generation.APIKey = apiKey

	timeout, err := prompter.Input("Generation timeout in seconds:", "120")
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(timeout); err == nil {
		cfg.Generation.TimeoutSeconds = n
	}
	return nil
}
