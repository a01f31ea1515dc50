package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"sentiment-service/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show label counts of the stored dataset",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	repo, closeDB, err := openRepository()
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := repo.GetStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	printStats(cmd.OutOrStdout(), stats)
	return nil
}

func printStats(w io.Writer, stats models.DatasetStats) {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Label", "Count", "Share"})
	for _, label := range models.Labels {
		n := stats.ByLabel[string(label)]
		share := 0.0
		if stats.Total > 0 {
			share = float64(n) / float64(stats.Total)
		}
		t.AppendRow(table.Row{label, n, fmt.Sprintf("%.1f%%", share*100)})
	}
	t.AppendFooter(table.Row{"total", stats.Total, ""})
	fmt.Fprintln(w, t.Render())
}
