package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
)

// Resolver locates an invocable command path for a toolchain tool and
// proves it works with a version probe. Implementations form a
// strategy chain; the first successful probe wins.
type Resolver interface {
	Resolve(ctx context.Context, tool string) (string, error)
}

// wrapperExtension returns the platform-specific extension package
// managers use for their wrapper scripts. On Windows npm installs
// npx.cmd next to node.exe, and that directory is not reliably on the
// execution PATH in every invocation context.
func wrapperExtension() string {
	if runtime.GOOS == "windows" {
		return ".cmd"
	}
	return ""
}

// SiblingResolver locates a tool as a sibling of the runtime binary:
// it asks the system where the runtime lives, derives the containing
// directory, and constructs the wrapper path for the requested tool
// there.
type SiblingResolver struct {
	runner  CommandRunner
	runtime string
	ext     string
}

// NewSiblingResolver creates the tier-1 resolver anchored on the
// given runtime command (typically "node").
func NewSiblingResolver(runner CommandRunner, runtimeName string) *SiblingResolver {
	return &SiblingResolver{
		runner:  runner,
		runtime: runtimeName,
		ext:     wrapperExtension(),
	}
}

// Resolve derives the sibling wrapper path and probes it.
func (r *SiblingResolver) Resolve(ctx context.Context, tool string) (string, error) {
	runtimePath, err := r.runner.LookPath(r.runtime)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", r.runtime, err)
	}

	candidate := filepath.Join(filepath.Dir(runtimePath), tool+r.ext)
	if err := probe(ctx, r.runner, candidate); err != nil {
		return "", err
	}

	return candidate, nil
}

// PathResolver resolves a tool by its bare name, relying on PATH
// lookup at spawn time.
type PathResolver struct {
	runner CommandRunner
}

// NewPathResolver creates the tier-2 fallback resolver.
func NewPathResolver(runner CommandRunner) *PathResolver {
	return &PathResolver{runner: runner}
}

// Resolve probes the bare tool name.
func (r *PathResolver) Resolve(ctx context.Context, tool string) (string, error) {
	if err := probe(ctx, r.runner, tool); err != nil {
		return "", err
	}

	return tool, nil
}

// ChainResolver tries each resolver in order and returns the first
// successful resolution. Resolution fails only when every tier fails.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver composes resolvers into a chain.
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

// Resolve walks the chain.
func (r *ChainResolver) Resolve(ctx context.Context, tool string) (string, error) {
	var lastErr error
	for _, resolver := range r.resolvers {
		path, err := resolver.Resolve(ctx, tool)
		if err == nil {
			return path, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no resolvers configured")
	}
	return "", fmt.Errorf("resolve %s: %w", tool, lastErr)
}

// defaultResolver builds the standard two-tier chain: sibling-of-
// runtime first, bare PATH name as fallback.
func defaultResolver(runner CommandRunner, runtimeName string) Resolver {
	return NewChainResolver(
		NewSiblingResolver(runner, runtimeName),
		NewPathResolver(runner),
	)
}

// probe proves a candidate invocable by running it with --version and
// requiring a zero exit. Probe output is not echoed to the console.
func probe(ctx context.Context, runner CommandRunner, candidate string) error {
	result, err := runner.Run(ctx, Command{Name: candidate, Args: []string{"--version"}}, nil)
	if err != nil {
		return fmt.Errorf("probe %s: %w", candidate, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("probe %s: exit code %d", candidate, result.ExitCode)
	}

	return nil
}
