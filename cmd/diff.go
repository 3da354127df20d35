package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/specsheet-cli/internal/engine"
)

var (
	diffRef    string
	diffText   string
	diffSchema string
	diffOld    string
	diffJSON   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Diff a new parse against stored field values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if diffOld == "" {
			return eris.New("--old is required (YAML of field: value)")
		}
		data, err := os.ReadFile(diffOld)
		if err != nil {
			return eris.Wrapf(err, "read %s", diffOld)
		}
		var existing map[string]string
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return eris.Wrapf(err, "parse %s", diffOld)
		}

		text, err := resolveInput(cmd, diffRef, diffText)
		if err != nil {
			return err
		}
		schema, err := loadSchema(diffSchema)
		if err != nil {
			return err
		}

		result := engine.Parse(text, schema, &engine.Options{
			CrowdAliases: loadCrowdAliases(ctx, ""),
		})
		entries := engine.Diff(existing, result.Fields)

		if diffJSON {
			return printJSON(entries)
		}
		for _, e := range entries {
			switch e.Status {
			case "changed":
				fmt.Printf("~ %-28s %s → %s\n", e.FieldName, e.OldValue, e.NewValue)
			case "added":
				fmt.Printf("+ %-28s %s\n", e.FieldName, e.NewValue)
			case "removed":
				fmt.Printf("- %-28s %s\n", e.FieldName, e.OldValue)
			default:
				fmt.Printf("  %-28s %s\n", e.FieldName, e.OldValue)
			}
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffRef, "from", "", "URL, PDF, XLSX or file to parse")
	diffCmd.Flags().StringVar(&diffText, "text", "", "inline spec text")
	diffCmd.Flags().StringVar(&diffSchema, "schema", "", "schema YAML (default: built-in)")
	diffCmd.Flags().StringVar(&diffOld, "old", "", "stored values YAML to diff against")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(diffCmd)
}
