package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

func loadFromYAML(t *testing.T, content string) (*Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, ".assetforge.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	return Load()
}

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "node", cfg.Toolchain.Runtime)
	assert.Equal(t, "npm", cfg.Toolchain.PackageManager)
	assert.Equal(t, "npx", cfg.Toolchain.Runner)
	assert.Equal(t, "webpack", cfg.Toolchain.Bundler)
	assert.Equal(t, "webpack.css.config.js", cfg.Toolchain.CSSConfigFile)
	assert.Equal(t, "webpack.js.config.js", cfg.Toolchain.JSConfigFile)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	// Path overrides default to empty: the project context falls back
	// to its hardcoded directory names.
	assert.Empty(t, cfg.Paths.BundleDir)
	assert.Empty(t, cfg.Paths.WebRoot)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	cfg, err := loadFromYAML(t, `
paths:
  bundle_dir: assets
  web_root: public
toolchain:
  bundler: rspack
  css_config_file: rspack.css.config.js
log:
  level: debug
`)
	require.NoError(t, err)

	assert.Equal(t, "assets", cfg.Paths.BundleDir)
	assert.Equal(t, "public", cfg.Paths.WebRoot)
	assert.Equal(t, "rspack", cfg.Toolchain.Bundler)
	assert.Equal(t, "rspack.css.config.js", cfg.Toolchain.CSSConfigFile)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset values still get defaults.
	assert.Equal(t, "node", cfg.Toolchain.Runtime)
	assert.Equal(t, "webpack.js.config.js", cfg.Toolchain.JSConfigFile)
}

func TestEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetEnvPrefix("ASSETFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(newEnvReplacer())
	t.Setenv("ASSETFORGE_PATHS_BUNDLE_DIR", "bundle-out")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bundle-out", cfg.Paths.BundleDir)
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	_, err := loadFromYAML(t, `
paths:
  bundle_dir: ../outside
`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "traversal")
}

func TestLoadRejectsAbsolutePaths(t *testing.T) {
	_, err := loadFromYAML(t, `
paths:
  web_root: /etc
`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "relative")
}

func TestLoadRejectsDangerousCommandNames(t *testing.T) {
	_, err := loadFromYAML(t, `
toolchain:
  bundler: "webpack; rm -rf /"
`)
	assert.Error(t, err)
}
