package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentiment-service/internal/client"
	"sentiment-service/internal/models"
	"sentiment-service/internal/service"
)

var analyzeFlags struct {
	remote string
	topN   int
	json   bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Predict and explain the sentiment of a text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.remote, "remote", "", "Base URL of a running service (default: run locally)")
	f.IntVar(&analyzeFlags.topN, "top-n", 0, "Number of contributing tokens to show (default: service default)")
	f.BoolVar(&analyzeFlags.json, "json", false, "Print the raw JSON result")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	var topN *int
	if cmd.Flags().Changed("top-n") {
		topN = &analyzeFlags.topN
	}

	var (
		analysis *models.Analysis
		err      error
	)
	if analyzeFlags.remote != "" {
		analysis, err = client.NewClient(analyzeFlags.remote).Analyze(cmd.Context(), "", input, topN)
	} else {
		var analyzer *service.Analyzer
		analyzer, err = service.NewAnalyzer(artifactStore(), cfg.Explain.MaxTopN, zap.NewNop())
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		analysis, err = analyzer.Analyze("", input, topN)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeFlags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	printAnalysis(out, analysis)
	return nil
}

func printAnalysis(w io.Writer, a *models.Analysis) {
	p := a.Prediction
	fmt.Fprintf(w, "Label:      %s\n", p.Label)
	for _, label := range models.Labels {
		fmt.Fprintf(w, "  %-13s %.4f\n", label, p.Confidence[label])
	}

	if a.Explanation == nil {
		fmt.Fprintf(w, "Explanation unavailable: %s\n", a.ExplanationError)
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Token", "Weight"})
	for _, c := range a.Explanation.Contributions {
		t.AppendRow(table.Row{c.Rank, c.Token, fmt.Sprintf("%+.4f", c.Weight)})
	}
	t.AppendFooter(table.Row{"", "<bias>", fmt.Sprintf("%+.4f", a.Explanation.Bias)})
	fmt.Fprintf(w, "Contributions toward %s:\n%s\n", a.Explanation.Target, t.Render())
}
