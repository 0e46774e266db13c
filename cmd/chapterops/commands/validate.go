package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chapterops/internal/validate"

	"github.com/spf13/cobra"
)

var validateOut string

var validateCmd = &cobra.Command{
	Use:   "validate <history.csv>",
	Short: "Strictly validate a history CSV and emit an equivalent JSON array",
	Long: `Checks the required columns and every row's type/range constraints
(year 2000-2100, month 1-12, metric key in the catalog, numeric value).
All row errors are printed and the command exits non-zero if any row is
invalid. On success an equivalent JSON array is written and a
region/chapter/metric summary is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		fmt.Printf("Validating %s...\n\n", path)

		rep, err := validate.History(string(raw), cat.MetricKeys())
		if err != nil {
			return err
		}
		if len(rep.Errors) > 0 {
			fmt.Fprintf(os.Stderr, "Found %d error(s):\n\n", len(rep.Errors))
			for _, e := range rep.Errors {
				fmt.Fprintf(os.Stderr, "  - %s\n", e)
			}
			return fmt.Errorf("%d invalid row(s)", len(rep.Errors))
		}

		fmt.Printf("OK: %d valid rows\n", len(rep.Rows))
		fmt.Printf("Regions: %s\n", strings.Join(rep.Regions(), ", "))
		fmt.Printf("Chapters: %s\n", strings.Join(rep.Chapters(), ", "))
		fmt.Printf("Metrics: %s\n", strings.Join(rep.Metrics(), ", "))

		outPath := validateOut
		if outPath == "" {
			outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		}
		payload, err := json.MarshalIndent(rep.Rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encode rows: %w", err)
		}
		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		fmt.Printf("\nJSON written to %s\n", outPath)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateOut, "out", "", "output JSON path (default: input path with .json extension)")
	rootCmd.AddCommand(validateCmd)
}
