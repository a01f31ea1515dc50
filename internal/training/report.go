package training

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render writes a human readable training report to w.
func (r *Result) Render(w io.Writer) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Class", "Precision", "Recall", "F1", "Support"})
	for _, c := range r.Evaluation.Classes {
		t.AppendRow(table.Row{c.Label, f3(c.Precision), f3(c.Recall), f3(c.F1), c.Support})
	}
	t.AppendFooter(table.Row{"accuracy", "", "", f3(r.Evaluation.Accuracy), r.TestSize})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	status := "converged"
	if !r.Converged {
		status = "stopped at max_iter"
	}
	weights, _ := r.Model.ClassWeights(len(r.Model.Classes()) - 1)

	var b strings.Builder
	fmt.Fprintf(&b, "Features: %d  Train: %d  Test: %d  Iterations: %d (%s)\n",
		r.Features.Dimension(), r.TrainSize, r.TestSize, r.Iterations, status)
	b.WriteString(t.Render())
	b.WriteString("\n")
	fmt.Fprintf(&b, "Top terms for %s: %s\n", r.Model.Classes()[1], strings.Join(topTerms(r.Features, weights, 10, true), ", "))
	fmt.Fprintf(&b, "Top terms for %s: %s\n", r.Model.Classes()[0], strings.Join(topTerms(r.Features, weights, 10, false), ", "))

	_, err := io.WriteString(w, b.String())
	return err
}

func f3(v float64) string { return fmt.Sprintf("%.3f", v) }
