package toolchain

import (
	"context"
	"fmt"
	"os"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/errors"
	"github.com/conneroisu/assetforge/internal/logging"
	"github.com/conneroisu/assetforge/internal/project"
)

// State is the coordinator's position in its strict progression.
// No state is revisited within a run; a failure at any state is
// terminal for that run.
type State int

const (
	StateUninitialized State = iota
	StateVerified
	StateDependenciesReady
	StateBuilt
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateVerified:
		return "verified"
	case StateDependenciesReady:
		return "dependencies_ready"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Coordinator drives the external toolchain through
// verify → install-dependencies → build(css) → build(js).
//
// No timeout and no cancellation are applied at any step: a hung
// external process blocks the coordinator, and therefore the whole
// pipeline, until it exits on its own.
type Coordinator struct {
	project  project.Context
	cfg      config.ToolchainConfig
	runner   CommandRunner
	resolver Resolver
	sink     OutputSink
	logger   logging.Logger

	state State

	// Resolved command paths, cached for the duration of the run.
	packageManagerPath string
	runnerPath         string
}

// NewCoordinator creates a coordinator for one pipeline run.
func NewCoordinator(pc project.Context, cfg config.ToolchainConfig, runner CommandRunner, sink OutputSink, logger logging.Logger) *Coordinator {
	return &Coordinator{
		project:  pc,
		cfg:      cfg,
		runner:   runner,
		resolver: defaultResolver(runner, cfg.Runtime),
		sink:     sink,
		logger:   logger,
		state:    StateUninitialized,
	}
}

// WithResolver replaces the resolution strategy chain. Intended for
// alternate strategies and tests.
func (c *Coordinator) WithResolver(resolver Resolver) *Coordinator {
	c.resolver = resolver
	return c
}

// State reports the coordinator's current state.
func (c *Coordinator) State() State {
	return c.state
}

// Verify queries the external runtime with --version and requires a
// zero exit. Any spawn failure or nonzero exit is terminal: there is
// no retry and no alternate probe.
func (c *Coordinator) Verify(ctx context.Context) error {
	if err := c.requireState(StateUninitialized); err != nil {
		return err
	}

	remediation := fmt.Sprintf("Install Node.js from https://nodejs.org/ and ensure %q is on your PATH.", c.cfg.Runtime)

	result, err := c.runner.Run(ctx, Command{Name: c.cfg.Runtime, Args: []string{"--version"}}, nil)
	if err != nil {
		return errors.NewToolMissingError(c.cfg.Runtime, remediation, err)
	}
	if result.ExitCode != 0 {
		return errors.NewToolMissingError(c.cfg.Runtime, remediation,
			fmt.Errorf("%s --version exited with code %d", c.cfg.Runtime, result.ExitCode))
	}

	c.logger.Info(ctx, "Runtime verified", "runtime", c.cfg.Runtime, "version", firstLine(result.Stdout))
	fmt.Printf("✅ Verified runtime: %s %s\n", c.cfg.Runtime, firstLine(result.Stdout))

	c.state = StateVerified
	return nil
}

// EnsureDependencies installs packages unless the dependency cache
// directory already exists under the project root. Presence of the
// directory, even empty, skips installation entirely: there is no
// staleness or version check, so a project with a stale cache never
// re-installs automatically.
func (c *Coordinator) EnsureDependencies(ctx context.Context) error {
	if err := c.requireState(StateVerified); err != nil {
		return err
	}

	if _, err := os.Stat(c.project.NodeModulesDir()); err == nil {
		c.logger.Info(ctx, "Dependency cache present, skipping install", "dir", c.project.NodeModulesDir())
		fmt.Println("📦 Dependencies already installed")
		c.state = StateDependenciesReady
		return nil
	}

	installerPath, err := c.resolveTool(ctx, c.cfg.PackageManager, &c.packageManagerPath)
	if err != nil {
		return err
	}

	cmd := Command{Name: installerPath, Args: []string{"install"}, Dir: c.project.Root()}
	fmt.Printf("📦 Installing dependencies: %s\n", cmd)

	result, err := c.runner.Run(ctx, cmd, c.sink)
	if err != nil {
		return errors.NewCommandFailedError(cmd.String(), -1, err.Error())
	}
	if result.ExitCode != 0 {
		return errors.NewCommandFailedError(cmd.String(), result.ExitCode, result.Stderr)
	}

	c.state = StateDependenciesReady
	return nil
}

// BuildAll runs the bundler once per configuration file, css profile
// first, then js. Each invocation streams output to the sink while
// buffering the complete text, and is awaited before the next starts.
func (c *Coordinator) BuildAll(ctx context.Context, configFiles ...string) error {
	if err := c.requireState(StateDependenciesReady); err != nil {
		return err
	}

	for _, configFile := range configFiles {
		if err := c.build(ctx, configFile); err != nil {
			return err
		}
	}

	c.state = StateBuilt
	return nil
}

func (c *Coordinator) build(ctx context.Context, configFile string) error {
	runnerPath, err := c.resolveTool(ctx, c.cfg.Runner, &c.runnerPath)
	if err != nil {
		return err
	}

	cmd := Command{
		Name: runnerPath,
		Args: []string{c.cfg.Bundler, "build", "--config", configFile},
		Dir:  c.project.Root(),
	}
	c.logger.Info(ctx, "Bundler invocation", "config", configFile)
	fmt.Printf("🔨 Bundling: %s\n", cmd)

	result, err := c.runner.Run(ctx, cmd, c.sink)
	if err != nil {
		return errors.NewCommandFailedError(cmd.String(), -1, err.Error())
	}
	if result.ExitCode != 0 {
		return errors.NewCommandFailedError(cmd.String(), result.ExitCode, result.Stderr)
	}

	return nil
}

// resolveTool resolves a tool through the strategy chain once per run,
// caching the result. Resolution failure is a missing-tool condition.
func (c *Coordinator) resolveTool(ctx context.Context, tool string, cache *string) (string, error) {
	if *cache != "" {
		return *cache, nil
	}

	path, err := c.resolver.Resolve(ctx, tool)
	if err != nil {
		remediation := fmt.Sprintf("Ensure %q is installed with your Node.js distribution and reachable from this shell.", tool)
		return "", errors.NewToolMissingError(tool, remediation, err)
	}

	c.logger.Debug(ctx, "Tool resolved", "tool", tool, "path", path)
	*cache = path
	return path, nil
}

func (c *Coordinator) requireState(expected State) error {
	if c.state != expected {
		return errors.NewConfigError(
			fmt.Sprintf("toolchain coordinator in state %q, expected %q", c.state, expected))
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
