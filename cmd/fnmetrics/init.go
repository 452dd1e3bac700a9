package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/fnmetrics/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/fnmetrics.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new fnmetrics configuration file",
		Long: `Initialize creates a new .fnmetrics.yaml configuration file in the current directory.

The generated file includes:
- The default output format and history settings
- The table interpretation settings with their defaults
- Documentation for all available options

Examples:
  # Create .fnmetrics.yaml in current directory
  fnmetrics init

  # Create config file at a specific path
  fnmetrics init -o ~/.config/fnmetrics/.fnmetrics.yaml

  # Force overwrite existing file
  fnmetrics init --force`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	// --output here names the generated file and shadows the root flag.
	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().Bool("force", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/fnmetrics.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change settings such as:")
	fmt.Fprintln(out, "  - The default output format")
	fmt.Fprintln(out, "  - Whether extractions are saved to the history database")
	fmt.Fprintln(out, "  - How header and row cells are interpreted")

	return nil
}
