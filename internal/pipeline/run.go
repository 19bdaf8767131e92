package pipeline

import (
	"context"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/logging"
	"github.com/conneroisu/assetforge/internal/project"
	"github.com/conneroisu/assetforge/internal/registry"
	"github.com/conneroisu/assetforge/internal/toolchain"
)

// NewProjectContext builds the immutable project context for a run,
// applying any configured path overrides. An empty projectPath means
// the current working directory.
func NewProjectContext(projectPath string, cfg *config.Config) (project.Context, error) {
	return project.NewContext(projectPath,
		project.WithBundleDir(cfg.Paths.BundleDir),
		project.WithTypesDir(cfg.Paths.TypesDir),
		project.WithWebRoot(cfg.Paths.WebRoot),
	)
}

// Run executes a full pipeline for the project at projectPath using
// the default registry, real process execution, and console-echoed
// toolchain output.
func Run(ctx context.Context, projectPath string, cfg *config.Config, logger *logging.ForgeLogger) error {
	pc, err := NewProjectContext(projectPath, cfg)
	if err != nil {
		return err
	}

	p := New(pc, registry.Default, cfg, toolchain.NewExecRunner(), toolchain.ConsoleSink{}, logger)
	return p.Execute(ctx)
}
