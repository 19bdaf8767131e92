// Package pipeline sequences a full build run: Initialize → Generate →
// Build, strictly sequential and fail-fast. The first error from any
// stage aborts the remaining stages and propagates to the caller;
// files already written stay on disk.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/deploy"
	"github.com/conneroisu/assetforge/internal/errors"
	"github.com/conneroisu/assetforge/internal/generate"
	"github.com/conneroisu/assetforge/internal/logging"
	"github.com/conneroisu/assetforge/internal/project"
	"github.com/conneroisu/assetforge/internal/registry"
	"github.com/conneroisu/assetforge/internal/toolchain"
)

// Stage names used in metrics and error context.
const (
	StageInitialize = "initialize"
	StageGenerate   = "generate"
	StageBuild      = "build"
)

// Pipeline orchestrates one build run for one project.
type Pipeline struct {
	project     project.Context
	registry    *registry.Registry
	cfg         *config.Config
	deployer    *deploy.Deployer
	stage       *generate.Stage
	coordinator *toolchain.Coordinator
	logger      *logging.ForgeLogger
	metrics     *Metrics
}

// New composes a pipeline from its collaborators.
func New(pc project.Context, reg *registry.Registry, cfg *config.Config, runner toolchain.CommandRunner, sink toolchain.OutputSink, logger *logging.ForgeLogger) *Pipeline {
	return &Pipeline{
		project:     pc,
		registry:    reg,
		cfg:         cfg,
		deployer:    deploy.NewDeployer(pc, logger.WithComponent("deploy")),
		stage:       generate.NewStage(pc, logger.WithComponent("generate")),
		coordinator: toolchain.NewCoordinator(pc, cfg.Toolchain, runner, sink, logger.WithComponent("toolchain")),
		logger:      logger,
		metrics:     NewMetrics(),
	}
}

// Metrics returns the per-stage timing record for the run.
func (p *Pipeline) Metrics() *Metrics {
	return p.metrics
}

// Execute runs the full pipeline. Descriptor lists are materialized
// once, up front: a generator that cannot be instantiated aborts the
// run before any stage performs I/O.
func (p *Pipeline) Execute(ctx context.Context) error {
	generators, err := p.registry.DiscoverGenerators()
	if err != nil {
		return err
	}
	templates := p.registry.DiscoverTemplates()

	p.logger.Info(ctx, "Pipeline starting",
		"project", p.project.Root(),
		"generators", len(generators),
		"templates", len(templates),
	)

	if err := p.runStage(ctx, StageInitialize, func() error {
		return p.initialize(ctx, templates)
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, StageGenerate, func() error {
		return p.stage.GenerateAssets(ctx, generators)
	}); err != nil {
		return err
	}

	if err := p.runStage(ctx, StageBuild, func() error {
		return p.coordinator.BuildAll(ctx, p.cfg.Toolchain.CSSConfigFile, p.cfg.Toolchain.JSConfigFile)
	}); err != nil {
		return err
	}

	fmt.Printf("✅ Build completed in %v\n", p.metrics.Total().Round(time.Millisecond))
	return nil
}

// initialize verifies the toolchain, ensures the standard project
// directories exist, deploys templates, and ensures dependencies are
// installed, in that order.
func (p *Pipeline) initialize(ctx context.Context, templates []registry.TemplateDescriptor) error {
	if err := p.coordinator.Verify(ctx); err != nil {
		return err
	}

	for _, dir := range p.project.StandardDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewIOError("failed to create project directory "+dir, err)
		}
	}

	if err := p.deployer.EnsureTemplates(ctx, templates); err != nil {
		return err
	}

	return p.coordinator.EnsureDependencies(ctx)
}

// runStage runs one stage with timing, attaching the stage name to any
// structured error that surfaces.
func (p *Pipeline) runStage(ctx context.Context, name string, fn func() error) error {
	stageLog := p.logger.StartStage(name)
	fmt.Printf("▶ Stage: %s\n", name)

	if err := fn(); err != nil {
		p.metrics.Record(name, stageLog.EndWithError(ctx, err))
		if fe, ok := errors.AsForgeError(err); ok && fe.Stage == "" {
			fe.WithStage(name)
		}
		return err
	}

	p.metrics.Record(name, stageLog.End(ctx))
	return nil
}
