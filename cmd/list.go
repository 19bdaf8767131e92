package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/assetforge/internal/registry"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List registered generators and templates",
	Long: `List everything registered for the build: asset generators in the
order they will run, and templates in the order they will be deployed.

Examples:
  assetforge list                 # Table output
  assetforge list -f json         # Output as JSON
  assetforge list --format yaml   # Output as YAML`,
	RunE: runList,
}

var listFormat string

// generatorEntry is the serializable view of a registered generator.
type generatorEntry struct {
	Order      int    `json:"order" yaml:"order"`
	Name       string `json:"name" yaml:"name"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// templateEntry is the serializable view of a registered template.
type templateEntry struct {
	RelativePath string `json:"relative_path" yaml:"relative_path"`
	Overwrite    bool   `json:"overwrite" yaml:"overwrite"`
}

type listReport struct {
	Generators []generatorEntry `json:"generators" yaml:"generators"`
	Templates  []templateEntry  `json:"templates" yaml:"templates"`
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table|json|yaml)")

	AddFlagValidation(listCmd, "format", func(format string) error {
		return ValidateFormat(format, []string{"table", "json", "yaml"})
	})
}

func runList(cmd *cobra.Command, args []string) error {
	generators, err := registry.Default.DiscoverGenerators()
	if err != nil {
		return fmt.Errorf("failed to discover generators: %w", err)
	}
	templates := registry.Default.DiscoverTemplates()

	report := listReport{
		Generators: make([]generatorEntry, 0, len(generators)),
		Templates:  make([]templateEntry, 0, len(templates)),
	}
	for _, g := range generators {
		report.Generators = append(report.Generators, generatorEntry{
			Order:      g.Order,
			Name:       g.Name,
			OutputFile: g.OutputFileName,
		})
	}
	for _, t := range templates {
		report.Templates = append(report.Templates, templateEntry{
			RelativePath: t.RelativePath,
			Overwrite:    t.Overwrite,
		})
	}

	switch listFormat {
	case "table":
		displayListTable(report)
		return nil
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		return encoder.Encode(report)
	default:
		return fmt.Errorf("unsupported format: %s", listFormat)
	}
}

func displayListTable(report listReport) {
	fmt.Printf("🧩 Generators (%d)\n", len(report.Generators))
	if len(report.Generators) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tNAME\tOUTPUT FILE")
		for _, g := range report.Generators {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.Order, g.Name, g.OutputFile)
		}
		w.Flush()
	}

	fmt.Printf("\n📄 Templates (%d)\n", len(report.Templates))
	if len(report.Templates) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tOVERWRITE")
		for _, t := range report.Templates {
			fmt.Fprintf(w, "%s\t%t\n", t.RelativePath, t.Overwrite)
		}
		w.Flush()
	}
}
