package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/generate"
	"github.com/conneroisu/assetforge/internal/pipeline"
	"github.com/conneroisu/assetforge/internal/registry"
	"github.com/conneroisu/assetforge/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Rebuild generated assets on file changes",
	Long: `Run a full build, then watch the project tree and re-run the
asset generation stage whenever files change. The toolchain stages
(verify, install, bundle) run only during the initial build; use the
build command for a full rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "Delay before regenerating after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	projectPath := ""
	if len(args) > 0 {
		projectPath = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(cfg.Log.Level, cfg.Log.Format)

	// Initial full build so watched rebuilds start from a valid tree.
	if err := pipeline.Run(context.Background(), projectPath, cfg, logger); err != nil {
		return err
	}

	pc, err := pipeline.NewProjectContext(projectPath, cfg)
	if err != nil {
		return err
	}

	stage := generate.NewStage(pc, logger.WithComponent("generate"))

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.DefaultProjectFilter(
		filepath.Base(pc.BundleDir()),
		filepath.Base(pc.WebRoot()),
	))
	fw.AddHandler(func(paths []string) error {
		fmt.Printf("🔁 Change detected (%d files), regenerating...\n", len(paths))
		descriptors, discoverErr := registry.Default.DiscoverGenerators()
		if discoverErr != nil {
			fmt.Fprintln(os.Stderr, "Regeneration failed:", discoverErr)
			return discoverErr
		}
		if genErr := stage.GenerateAssets(context.Background(), descriptors); genErr != nil {
			fmt.Fprintln(os.Stderr, "Regeneration failed:", genErr)
			return genErr
		}
		return nil
	})

	if err := fw.AddRecursive(pc.Root()); err != nil {
		return fmt.Errorf("failed to watch project: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fw.Start(ctx)
	fmt.Println("👀 Watching for changes (Ctrl+C to stop)...")
	<-ctx.Done()
	fmt.Println()

	return nil
}
