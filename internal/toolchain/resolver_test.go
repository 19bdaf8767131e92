package toolchain

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiblingResolverDerivesWrapperNextToRuntime(t *testing.T) {
	runner := newFakeRunner()
	nodeDir := filepath.Join("/usr", "local", "bin")
	runner.stubLookPath("node", filepath.Join(nodeDir, "node"))

	candidate := filepath.Join(nodeDir, "npx"+wrapperExtension())
	runner.stub(candidate+" --version", CommandResult{ExitCode: 0, Stdout: "10.2.0\n"}, nil)

	resolver := NewSiblingResolver(runner, "node")
	path, err := resolver.Resolve(context.Background(), "npx")
	require.NoError(t, err)
	assert.Equal(t, candidate, path)
}

func TestSiblingResolverFailsWhenRuntimeNotFound(t *testing.T) {
	runner := newFakeRunner()

	resolver := NewSiblingResolver(runner, "node")
	_, err := resolver.Resolve(context.Background(), "npx")
	assert.Error(t, err)
}

func TestSiblingResolverFailsWhenProbeExitsNonzero(t *testing.T) {
	runner := newFakeRunner()
	runner.stubLookPath("node", "/opt/node/bin/node")
	candidate := filepath.Join("/opt", "node", "bin", "npx"+wrapperExtension())
	runner.stub(candidate+" --version", CommandResult{ExitCode: 1}, nil)

	resolver := NewSiblingResolver(runner, "node")
	_, err := resolver.Resolve(context.Background(), "npx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit code 1")
}

func TestPathResolverProbesBareName(t *testing.T) {
	runner := newFakeRunner()
	runner.stub("npx --version", CommandResult{ExitCode: 0, Stdout: "10.2.0\n"}, nil)

	resolver := NewPathResolver(runner)
	path, err := resolver.Resolve(context.Background(), "npx")
	require.NoError(t, err)
	assert.Equal(t, "npx", path)
}

func TestChainPrefersFirstSuccessfulTier(t *testing.T) {
	runner := newFakeRunner()
	runner.stubLookPath("node", "/opt/node/bin/node")
	sibling := filepath.Join("/opt", "node", "bin", "npx"+wrapperExtension())
	runner.stub(sibling+" --version", CommandResult{ExitCode: 0}, nil)
	runner.stub("npx --version", CommandResult{ExitCode: 0}, nil)

	resolver := defaultResolver(runner, "node")
	path, err := resolver.Resolve(context.Background(), "npx")
	require.NoError(t, err)
	assert.Equal(t, sibling, path, "tier 1 short-circuits tier 2")
}

func TestChainFallsBackToBareNameWhenSiblingProbeFails(t *testing.T) {
	runner := newFakeRunner()
	// Runtime not locatable at all: tier 1 cannot even derive a candidate.
	runner.stub("npx --version", CommandResult{ExitCode: 0, Stdout: "10.2.0\n"}, nil)

	resolver := defaultResolver(runner, "node")
	path, err := resolver.Resolve(context.Background(), "npx")
	require.NoError(t, err)
	assert.Equal(t, "npx", path)
}

func TestChainFailsWhenAllTiersFail(t *testing.T) {
	runner := newFakeRunner()

	resolver := defaultResolver(runner, "node")
	_, err := resolver.Resolve(context.Background(), "npx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npx")
}

func TestEmptyChainFails(t *testing.T) {
	resolver := NewChainResolver()
	_, err := resolver.Resolve(context.Background(), "npx")
	assert.Error(t, err)
}
