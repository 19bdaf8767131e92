package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Run the full asset build pipeline",
	Long: `Run the full asset build pipeline for a project.

The pipeline verifies the external toolchain, ensures the standard
project directories, deploys configuration templates, installs
dependencies when the node_modules cache is absent, generates assets
in registered order, and invokes the bundler once per profile (css,
then js).

Examples:
  assetforge build                # Build the project in the current directory
  assetforge build ./webapp       # Build a specific project directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	projectPath := ""
	if len(args) > 0 {
		projectPath = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format)

	fmt.Println("🔨 Starting build...")
	if err := pipeline.Run(context.Background(), projectPath, cfg, logger); err != nil {
		return err
	}

	fmt.Printf("✅ Done in %v\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}
