package commands

import (
	"fmt"
	"path/filepath"

	"chapterops/internal/history"

	"github.com/spf13/cobra"
)

var (
	statsRegion  string
	statsChapter string
	statsMetric  string
	statsMonth   int
	statsData    string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show historical stats and neighbor months for one metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsMonth < 1 || statsMonth > 12 {
			return fmt.Errorf("month must be 1-12, got %d", statsMonth)
		}
		if cat.FindMetric(statsMetric) == nil {
			return fmt.Errorf("unknown metric %q", statsMetric)
		}

		dataDir := statsData
		if dataDir == "" {
			dataDir = filepath.Join(cfg.DataPath, "data")
		}
		rows, err := history.LoadHistory(filepath.Join(dataDir, "history.csv"))
		if err != nil {
			return err
		}
		events, err := history.LoadEvents(filepath.Join(dataDir, "events.csv"))
		if err != nil {
			return err
		}

		stats := history.Compute(rows, statsRegion, statsChapter, statsMetric, statsMonth)
		if stats == nil {
			fmt.Printf("No history for %s/%s %s month %d\n",
				statsRegion, statsChapter, statsMetric, statsMonth)
		} else {
			fmt.Printf("%s / %s: %s, month %d (%d observed years)\n",
				statsRegion, statsChapter, statsMetric, statsMonth, stats.CountYears)
			fmt.Printf("  avg %.2f  min %.0f  max %.0f  stdev %.2f  [%s]\n",
				stats.Avg, stats.Min, stats.Max, stats.Stdev, stats.Variability)
			fmt.Printf("  suggested goal: %d\n", history.RoundGoal(stats.Avg))
		}

		fmt.Println()
		for _, nm := range history.Neighbors(rows, events, statsRegion, statsChapter, statsMetric, statsMonth) {
			fmt.Printf("%s: avg %.0f\n", nm.MonthLabel, nm.Avg)
			for _, ev := range history.LatestPerName(nm.Events) {
				fmt.Printf("    %s (%d): %.0f\n", ev.Name, ev.Year, ev.Value)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsRegion, "region", "", "region name")
	statsCmd.Flags().StringVar(&statsChapter, "chapter", "", "chapter name")
	statsCmd.Flags().StringVar(&statsMetric, "metric", "", "metric key")
	statsCmd.Flags().IntVar(&statsMonth, "month", 0, "month 1-12")
	statsCmd.Flags().StringVar(&statsData, "data", "", "data directory containing history.csv/events.csv")
	_ = statsCmd.MarkFlagRequired("region")
	_ = statsCmd.MarkFlagRequired("metric")
	_ = statsCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(statsCmd)
}
