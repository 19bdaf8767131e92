package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextDerivedPaths(t *testing.T) {
	ctx, err := NewContext("/srv/webapp")
	require.NoError(t, err)

	assert.Equal(t, "/srv/webapp", ctx.Root())
	assert.Equal(t, filepath.Join("/srv/webapp", "CssBundle"), ctx.BundleDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "Types"), ctx.TypesDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "wwwroot"), ctx.WebRoot())
	assert.Equal(t, filepath.Join("/srv/webapp", "wwwroot", "css"), ctx.WebRootCSSDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "wwwroot", "js"), ctx.WebRootJSDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "node_modules"), ctx.NodeModulesDir())
}

func TestContextEmptyRootDefaultsToWorkingDirectory(t *testing.T) {
	ctx, err := NewContext("")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(ctx.Root()))
}

func TestContextOptionsOverrideDerivedNames(t *testing.T) {
	ctx, err := NewContext("/srv/webapp",
		WithBundleDir("assets"),
		WithTypesDir("generated"),
		WithWebRoot("public"),
	)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/webapp", "assets"), ctx.BundleDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "generated"), ctx.TypesDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "public", "css"), ctx.WebRootCSSDir())
}

func TestContextEmptyOptionValuesKeepDefaults(t *testing.T) {
	ctx, err := NewContext("/srv/webapp", WithBundleDir(""), WithWebRoot(""))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/webapp", "CssBundle"), ctx.BundleDir())
	assert.Equal(t, filepath.Join("/srv/webapp", "wwwroot"), ctx.WebRoot())
}

func TestStandardDirsCoverAllStageTargets(t *testing.T) {
	ctx, err := NewContext("/srv/webapp")
	require.NoError(t, err)

	dirs := ctx.StandardDirs()
	assert.Contains(t, dirs, ctx.BundleDir())
	assert.Contains(t, dirs, ctx.TypesDir())
	assert.Contains(t, dirs, ctx.WebRootCSSDir())
	assert.Contains(t, dirs, ctx.WebRootJSDir())
}
