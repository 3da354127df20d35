package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/specsheet-cli/internal/engine"
)

var (
	batchRef       string
	batchText      string
	batchSchema    string
	batchAliasDict string
	batchJSON      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Split multi-product text and parse each segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := resolveInput(cmd, batchRef, batchText)
		if err != nil {
			return err
		}

		schema, err := loadSchema(batchSchema)
		if err != nil {
			return err
		}
		if err := mergeAliasDict(batchAliasDict); err != nil {
			return err
		}

		opts := &engine.Options{CrowdAliases: loadCrowdAliases(ctx, "")}
		items := engine.ParseBatch(ctx, text, schema, opts)

		zap.L().Info("batch parse complete", zap.Int("segments", len(items)))

		if batchJSON {
			return printJSON(items)
		}
		for i, item := range items {
			fmt.Printf("=== Segment %d (lines %d–%d)", i+1, item.Segment.StartLine, item.Segment.EndLine)
			if item.Segment.Name != "" {
				fmt.Printf(": %s", item.Segment.Name)
			}
			fmt.Println(" ===")
			printResult(item.Result)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchRef, "from", "", "URL, PDF, XLSX or file to parse")
	batchCmd.Flags().StringVar(&batchText, "text", "", "inline spec text")
	batchCmd.Flags().StringVar(&batchSchema, "schema", "", "schema YAML (default: built-in)")
	batchCmd.Flags().StringVar(&batchAliasDict, "aliases", "", "extra alias dictionary YAML")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(batchCmd)
}
