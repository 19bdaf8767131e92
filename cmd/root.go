// Package cmd provides the command-line interface for assetforge with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --log-level) - highest priority
//	2. ASSETFORGE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (ASSETFORGE_PATHS_BUNDLE_DIR, etc.)
//	4. Configuration files (.assetforge.yml) - lowest priority
//
// A project .env file, when present, is loaded into the environment
// before viper binds environment variables.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/assetforge/internal/logging"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetforge",
	Short: "A front-end asset build orchestrator",
	Long: `Assetforge orchestrates front-end asset builds for web projects:
it runs registered content generators in a deterministic order, deploys
configuration templates, and drives the Node-based bundler toolchain
(verify, install dependencies, bundle css and js).

Quick Start:
  assetforge build                Build the project in the current directory
  assetforge build ./webapp       Build a specific project
  assetforge watch                Rebuild assets on file changes
  assetforge doctor               Diagnose the external toolchain
  assetforge list                 List registered generators and templates`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .assetforge.yml, can also use ASSETFORGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. ASSETFORGE_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .assetforge.yml in current directory
func initConfig() {
	// A project .env is a convenience for toolchain environment
	// variables; absence is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("ASSETFORGE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".assetforge")
	}

	viper.SetEnvPrefix("ASSETFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Missing or malformed config files degrade to defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the run logger from the configured level and format.
func newLogger(level, format string) *logging.ForgeLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(level),
		Format: format,
		Output: os.Stderr,
	})
}
