package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/assetforge/internal/config"
	"github.com/conneroisu/assetforge/internal/pipeline"
	"github.com/conneroisu/assetforge/internal/toolchain"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [path]",
	Short: "Diagnose the front-end toolchain and project layout",
	Long: `Diagnose the front-end build environment and report problems.

The doctor command checks everything a build needs before you run one:

- Runtime availability (node on PATH and responding)
- Package manager and runner resolution (npm, npx)
- Bundler configuration files (webpack config presence)
- Dependency cache state (node_modules)
- Configuration file validity

Examples:
  assetforge doctor                 # Diagnose the current directory
  assetforge doctor ./site          # Diagnose a specific project
  assetforge doctor --format json   # Machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoctor,
}

var (
	doctorVerbose bool
	doctorFormat  string
)

// DiagnosticResult is the outcome of a single environment check.
type DiagnosticResult struct {
	Name       string            `json:"name" yaml:"name"`
	Category   string            `json:"category" yaml:"category"`
	Status     string            `json:"status" yaml:"status"` // "ok", "warning", "error"
	Message    string            `json:"message" yaml:"message"`
	Suggestion string            `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Details    map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// DoctorReport is the complete diagnostic report.
type DoctorReport struct {
	Timestamp   time.Time          `json:"timestamp" yaml:"timestamp"`
	Environment map[string]string  `json:"environment" yaml:"environment"`
	Results     []DiagnosticResult `json:"results" yaml:"results"`
	Summary     ReportSummary      `json:"summary" yaml:"summary"`
}

// ReportSummary counts check outcomes by status.
type ReportSummary struct {
	Total    int `json:"total" yaml:"total"`
	OK       int `json:"ok" yaml:"ok"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Errors   int `json:"errors" yaml:"errors"`
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Show verbose diagnostic information")
	doctorCmd.Flags().StringVarP(&doctorFormat, "format", "f", "table", "Output format (table|json|yaml)")

	AddFlagValidation(doctorCmd, "format", func(format string) error {
		return ValidateFormat(format, []string{"table", "json", "yaml"})
	})
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projectPath := ""
	if len(args) > 0 {
		projectPath = args[0]
	}

	if doctorFormat == "table" {
		fmt.Println("🔍 Assetforge Environment Doctor")
		fmt.Println("================================")
		fmt.Println()
	}

	report := &DoctorReport{
		Timestamp:   time.Now(),
		Environment: gatherEnvironmentInfo(),
		Results:     []DiagnosticResult{},
	}

	cfg, cfgErr := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}

	runner := toolchain.NewExecRunner()
	resolver := toolchain.NewChainResolver(
		toolchain.NewSiblingResolver(runner, cfg.Toolchain.Runtime),
		toolchain.NewPathResolver(runner),
	)

	checks := []func(context.Context) DiagnosticResult{
		func(context.Context) DiagnosticResult { return checkConfiguration(cfg, cfgErr) },
		func(ctx context.Context) DiagnosticResult { return checkRuntime(ctx, runner, cfg) },
		func(ctx context.Context) DiagnosticResult {
			return checkResolvedTool(ctx, resolver, "Package manager", cfg.Toolchain.PackageManager)
		},
		func(ctx context.Context) DiagnosticResult {
			return checkResolvedTool(ctx, resolver, "Tool runner", cfg.Toolchain.Runner)
		},
		func(context.Context) DiagnosticResult { return checkBundlerConfigs(projectPath, cfg) },
		func(context.Context) DiagnosticResult { return checkDependencyCache(projectPath, cfg) },
	}

	for _, check := range checks {
		result := check(ctx)
		report.Results = append(report.Results, result)

		if doctorFormat == "table" {
			displayResult(result)
		}
	}

	report.Summary = calculateSummary(report.Results)

	switch doctorFormat {
	case "table":
		fmt.Println("📊 Summary")
		fmt.Println("==========")
		displaySummary(report.Summary)
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to output report: %w", err)
		}
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to output report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", doctorFormat)
	}

	if report.Summary.Errors > 0 {
		return fmt.Errorf("%d diagnostic check(s) failed", report.Summary.Errors)
	}
	return nil
}

func gatherEnvironmentInfo() map[string]string {
	env := map[string]string{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"go_version": runtime.Version(),
		"shell":      os.Getenv("SHELL"),
	}

	if wd, err := os.Getwd(); err == nil {
		env["working_dir"] = wd
	}

	return env
}

func checkConfiguration(cfg *config.Config, loadErr error) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Configuration",
		Category: "Configuration",
		Status:   "ok",
	}

	if loadErr != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Configuration has errors: %v", loadErr)
		result.Suggestion = "Fix .assetforge.yml or unset conflicting ASSETFORGE_* environment variables"
		return result
	}

	result.Message = "Configuration is valid"
	result.Details = map[string]string{
		"runtime":         cfg.Toolchain.Runtime,
		"package_manager": cfg.Toolchain.PackageManager,
		"runner":          cfg.Toolchain.Runner,
		"bundler":         cfg.Toolchain.Bundler,
		"bundle_dir":      cfg.Paths.BundleDir,
		"web_root":        cfg.Paths.WebRoot,
	}
	return result
}

func checkRuntime(ctx context.Context, runner toolchain.CommandRunner, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Runtime",
		Category: "Toolchain",
		Status:   "ok",
	}

	res, err := runner.Run(ctx, toolchain.Command{
		Name: cfg.Toolchain.Runtime,
		Args: []string{"--version"},
	}, nil)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("%s is not available: %v", cfg.Toolchain.Runtime, err)
		result.Suggestion = "Install Node.js from https://nodejs.org/ and ensure it is on your PATH"
		return result
	}
	if res.ExitCode != 0 {
		result.Status = "error"
		result.Message = fmt.Sprintf("%s --version exited with code %d", cfg.Toolchain.Runtime, res.ExitCode)
		result.Suggestion = "Reinstall Node.js; the runtime on PATH is not functional"
		return result
	}

	result.Message = fmt.Sprintf("%s %s", cfg.Toolchain.Runtime, strings.TrimSpace(res.Stdout))
	return result
}

func checkResolvedTool(ctx context.Context, resolver toolchain.Resolver, name, tool string) DiagnosticResult {
	result := DiagnosticResult{
		Name:     name,
		Category: "Toolchain",
		Status:   "ok",
	}

	path, err := resolver.Resolve(ctx, tool)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("%s could not be resolved: %v", tool, err)
		result.Suggestion = fmt.Sprintf("Install %s alongside your runtime or add it to your PATH", tool)
		return result
	}

	result.Message = fmt.Sprintf("%s resolved", tool)
	result.Details = map[string]string{"path": path}
	return result
}

func checkBundlerConfigs(projectPath string, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Bundler configuration",
		Category: "Project",
		Status:   "ok",
	}

	pc, err := pipeline.NewProjectContext(projectPath, cfg)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Project layout is invalid: %v", err)
		return result
	}

	missing := []string{}
	for _, file := range []string{cfg.Toolchain.CSSConfigFile, cfg.Toolchain.JSConfigFile} {
		if _, statErr := os.Stat(filepath.Join(pc.Root(), file)); statErr != nil {
			missing = append(missing, file)
		}
	}

	if len(missing) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Missing bundler config files: %s", strings.Join(missing, ", "))
		result.Suggestion = "Run 'assetforge build' once; the initialize stage deploys default configs"
		return result
	}

	result.Message = "Bundler config files present"
	return result
}

func checkDependencyCache(projectPath string, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Name:     "Dependency cache",
		Category: "Project",
		Status:   "ok",
	}

	pc, err := pipeline.NewProjectContext(projectPath, cfg)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Project layout is invalid: %v", err)
		return result
	}

	if _, statErr := os.Stat(pc.NodeModulesDir()); statErr != nil {
		result.Status = "warning"
		result.Message = "node_modules is absent; dependencies will be installed on the next build"
		return result
	}

	result.Message = "node_modules present; install will be skipped"
	return result
}

func displayResult(result DiagnosticResult) {
	var icon string
	switch result.Status {
	case "ok":
		icon = "✅"
	case "warning":
		icon = "⚠️"
	case "error":
		icon = "❌"
	default:
		icon = "•"
	}

	fmt.Printf("%s [%s] %s: %s\n", icon, strings.ToUpper(result.Category), result.Name, result.Message)

	if result.Suggestion != "" {
		fmt.Printf("   💡 %s\n", result.Suggestion)
	}

	if doctorVerbose && len(result.Details) > 0 {
		fmt.Printf("   📋 Details: %+v\n", result.Details)
	}

	fmt.Println()
}

func calculateSummary(results []DiagnosticResult) ReportSummary {
	summary := ReportSummary{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case "ok":
			summary.OK++
		case "warning":
			summary.Warnings++
		case "error":
			summary.Errors++
		}
	}
	return summary
}

func displaySummary(summary ReportSummary) {
	fmt.Printf("Total checks: %d\n", summary.Total)
	fmt.Printf("✅ OK: %d\n", summary.OK)
	if summary.Warnings > 0 {
		fmt.Printf("⚠️  Warnings: %d\n", summary.Warnings)
	}
	if summary.Errors > 0 {
		fmt.Printf("❌ Errors: %d\n", summary.Errors)
	}
}
