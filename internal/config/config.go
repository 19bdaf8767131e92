// Package config provides configuration management for assetforge
// using Viper for flexible configuration loading from files,
// environment variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the ASSETFORGE_ prefix, and validation. It manages
// the project path layout (bundle, types, web root) and the external
// toolchain commands (runtime, package manager, runner, bundler).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Log       LogConfig       `yaml:"log"`
}

// PathsConfig declares alternate names for the derived project
// directories. Empty fields fall back to the hardcoded defaults.
type PathsConfig struct {
	BundleDir string `yaml:"bundle_dir"`
	TypesDir  string `yaml:"types_dir"`
	WebRoot   string `yaml:"web_root"`
}

// ToolchainConfig names the external commands the coordinator drives.
type ToolchainConfig struct {
	Runtime        string `yaml:"runtime"`
	PackageManager string `yaml:"package_manager"`
	Runner         string `yaml:"runner"`
	Bundler        string `yaml:"bundler"`
	CSSConfigFile  string `yaml:"css_config_file"`
	JSConfigFile   string `yaml:"js_config_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle path settings set via viper (workaround for viper
	// nested-key handling when no config file is present)
	if viper.IsSet("paths.bundle_dir") && config.Paths.BundleDir == "" {
		config.Paths.BundleDir = viper.GetString("paths.bundle_dir")
	}
	if viper.IsSet("paths.types_dir") && config.Paths.TypesDir == "" {
		config.Paths.TypesDir = viper.GetString("paths.types_dir")
	}
	if viper.IsSet("paths.web_root") && config.Paths.WebRoot == "" {
		config.Paths.WebRoot = viper.GetString("paths.web_root")
	}

	// Apply default values for ToolchainConfig if not set
	if config.Toolchain.Runtime == "" {
		config.Toolchain.Runtime = "node"
	}
	if config.Toolchain.PackageManager == "" {
		config.Toolchain.PackageManager = "npm"
	}
	if config.Toolchain.Runner == "" {
		config.Toolchain.Runner = "npx"
	}
	if config.Toolchain.Bundler == "" {
		config.Toolchain.Bundler = "webpack"
	}
	if config.Toolchain.CSSConfigFile == "" {
		config.Toolchain.CSSConfigFile = "webpack.css.config.js"
	}
	if config.Toolchain.JSConfigFile == "" {
		config.Toolchain.JSConfigFile = "webpack.js.config.js"
	}

	// Apply default values for LogConfig if not set
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with all defaults applied and no
// file or environment overrides. Useful when Load fails but a best
// effort config is still needed for diagnostics.
func Default() *Config {
	return &Config{
		Toolchain: ToolchainConfig{
			Runtime:        "node",
			PackageManager: "npm",
			Runner:         "npx",
			Bundler:        "webpack",
			CSSConfigFile:  "webpack.css.config.js",
			JSConfigFile:   "webpack.js.config.js",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validatePathsConfig(&config.Paths); err != nil {
		return fmt.Errorf("paths config: %w", err)
	}

	if err := validateToolchainConfig(&config.Toolchain); err != nil {
		return fmt.Errorf("toolchain config: %w", err)
	}

	return nil
}

// validatePathsConfig validates the path layout values
func validatePathsConfig(config *PathsConfig) error {
	for field, value := range map[string]string{
		"bundle_dir": config.BundleDir,
		"types_dir":  config.TypesDir,
		"web_root":   config.WebRoot,
	} {
		if value == "" {
			continue
		}
		if err := validateRelativePath(value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", field, value, err)
		}
	}

	return nil
}

// validateToolchainConfig validates the external command names
func validateToolchainConfig(config *ToolchainConfig) error {
	for field, value := range map[string]string{
		"runtime":         config.Runtime,
		"package_manager": config.PackageManager,
		"runner":          config.Runner,
		"bundler":         config.Bundler,
	} {
		if value == "" {
			continue
		}
		if err := validateCommandName(value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", field, value, err)
		}
	}

	for field, value := range map[string]string{
		"css_config_file": config.CSSConfigFile,
		"js_config_file":  config.JSConfigFile,
	} {
		if value == "" {
			continue
		}
		if err := validateRelativePath(value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", field, value, err)
		}
	}

	return nil
}

// validateRelativePath validates a configured path for security
func validateRelativePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path must be relative to the project root: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// validateCommandName rejects command values that could smuggle shell
// metacharacters into process invocation
func validateCommandName(name string) error {
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", " ", "\t", "\n"}
	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("command contains dangerous character: %q", char)
		}
	}

	return nil
}
