package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/specsheet-cli/internal/engine"
	"github.com/sells-group/specsheet-cli/internal/model"
)

var (
	parseRef       string
	parseText      string
	parseSchema    string
	parseAliasDict string
	parseCategory  string
	parseMetric    bool
	parseJSON      bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one product's spec text into structured fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := resolveInput(cmd, parseRef, parseText)
		if err != nil {
			return err
		}

		schema, err := loadSchema(parseSchema)
		if err != nil {
			return err
		}
		if err := mergeAliasDict(parseAliasDict); err != nil {
			return err
		}

		opts := &engine.Options{
			CrowdAliases: loadCrowdAliases(ctx, parseCategory),
			CategoryHint: parseCategory,
		}
		result := engine.Parse(text, schema, opts)

		zap.L().Info("parse complete",
			zap.String("name", result.Name),
			zap.String("category", result.Category),
			zap.Int("fields", len(result.Fields)),
			zap.Int("unmatched", len(result.UnmatchedPairs)),
		)

		if parseMetric {
			payload := engine.BuildApplyPayload(result, nil, &engine.PayloadOptions{NormalizeMetric: true})
			if parseJSON {
				return printJSON(payload)
			}
			printPayload(payload)
			return nil
		}
		if parseJSON {
			return printJSON(result)
		}
		printResult(result)
		return nil
	},
}

func printPayload(p *model.ApplyPayload) {
	if p.Name != "" {
		fmt.Printf("Name:     %s\n", p.Name)
	}
	if p.Brand != "" {
		fmt.Printf("Brand:    %s\n", p.Brand)
	}
	if p.Category != "" {
		fmt.Printf("Category: %s\n", p.Category)
	}
	names := make([]string, 0, len(p.Specs))
	for name := range p.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("\nSpecs (%d):\n", len(names))
	for _, name := range names {
		fmt.Printf("  %-28s %s\n", name, p.Specs[name])
	}
}

// resolveInput takes text from --text, a ref via the source chain, or
// stdin when piped.
func resolveInput(cmd *cobra.Command, ref, text string) (string, error) {
	if text != "" {
		return text, nil
	}
	if ref != "" {
		chain := newSourceChain()
		out, err := chain.Extract(cmd.Context(), ref)
		if err != nil {
			return "", eris.Wrapf(err, "acquire text from %s", ref)
		}
		return out, nil
	}
	info, err := os.Stdin.Stat()
	if err == nil && info.Mode()&os.ModeCharDevice == 0 {
		data, err := os.ReadFile("/dev/stdin")
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	return "", eris.New("no input: pass --from, --text, or pipe text on stdin")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

func printResult(r *model.ParseResult) {
	if r.Name != "" {
		fmt.Printf("Name:     %s\n", r.Name)
	}
	if r.Brand != "" {
		fmt.Printf("Brand:    %s\n", r.Brand)
	}
	if r.Category != "" {
		fmt.Printf("Category: %s\n", r.Category)
	}
	if r.PurchasePrice > 0 {
		fmt.Printf("Price:    %.2f", r.PurchasePrice)
		if r.PriceNote != "" {
			fmt.Printf(" (%s)", r.PriceNote)
		}
		fmt.Println()
	}
	if r.SerialNumber != "" {
		fmt.Printf("Serial:   %s\n", r.SerialNumber)
	}
	if r.ModelNumber != "" {
		fmt.Printf("Model:    %s\n", r.ModelNumber)
	}

	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\nFields (%d):\n", len(names))
	for _, name := range names {
		f := r.Fields[name]
		fmt.Printf("  %-28s %-32s [%d%%", name, f.Value, f.Confidence)
		if f.HasConflict {
			fmt.Print(", conflict")
		}
		if f.MergedCount > 1 {
			fmt.Printf(", merged %d", f.MergedCount)
		}
		fmt.Print("]")
		if f.ValidationWarning != "" {
			fmt.Printf(" ⚠ %s", f.ValidationWarning)
		}
		fmt.Println()
	}

	if len(r.UnmatchedPairs) > 0 {
		fmt.Printf("\nUnmatched (%d):\n", len(r.UnmatchedPairs))
		for _, p := range r.UnmatchedPairs {
			fmt.Printf("  %s: %s\n", p.Key, p.Value)
		}
	}
}

func init() {
	parseCmd.Flags().StringVar(&parseRef, "from", "", "URL, PDF, XLSX or file to parse")
	parseCmd.Flags().StringVar(&parseText, "text", "", "inline spec text")
	parseCmd.Flags().StringVar(&parseSchema, "schema", "", "schema YAML (default: built-in)")
	parseCmd.Flags().StringVar(&parseAliasDict, "aliases", "", "extra alias dictionary YAML")
	parseCmd.Flags().StringVar(&parseCategory, "category", "", "category hint (skips detection)")
	parseCmd.Flags().BoolVar(&parseMetric, "metric", false, "normalize units to metric in payload output")
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(parseCmd)
}
