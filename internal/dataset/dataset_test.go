package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sentiment-service/internal/models"
)

var originalAliases = map[string]string{
	"suicide":                "suicidal",
	"non-suicide":            "non-suicidal",
	"not suicide post":       "non-suicidal",
	"potential suicide post": "suicidal",
	"non-suicide post":       "non-suicidal",
	"non suicide":            "non-suicidal",
}

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(originalAliases)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestNormalize(t *testing.T) {
	n := newNormalizer(t)
	tests := map[string]string{
		"Suicide":                  "suicidal",
		"  Potential Suicide post": "suicidal",
		"Not Suicide Post":         "non-suicidal",
		"non suicide":              "non-suicidal",
		"SUICIDAL":                 "suicidal",
		"depression":               "depression",
	}
	for in, want := range tests {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewNormalizerRejectsUnknownTarget(t *testing.T) {
	if _, err := NewNormalizer(map[string]string{"sad": "depressed"}); err == nil {
		t.Error("want error for non-canonical alias target")
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{
			Name: "one", TextColumn: "Post", LabelColumn: "Label",
			Path: writeCSV(t, dir, "d1.csv", "Post,Label,Extra\n\"I can't go on, really\",Potential Suicide post,x\nnice weather,Not Suicide post,y\n"),
		},
		{
			Name: "two", TextColumn: "text", LabelColumn: "class",
			Path: writeCSV(t, dir, "d2.csv", "id,text,class\n1,so tired of everything,suicide\n2,,non-suicide\n3,went hiking,\n4,pizza night,non-suicide\n"),
		},
		{
			TextColumn: "Tweet", LabelColumn: "Suicide",
			Path: writeCSV(t, dir, "d3.csv", "Tweet,Suicide\nwhy bother,Potential Suicide post \n"),
		},
	}

	got, err := LoadSources(context.Background(), sources, newNormalizer(t))
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}

	type row struct{ Text, Label, Source string }
	var rows []row
	for _, e := range got {
		rows = append(rows, row{e.Text, e.Label, e.Source})
	}
	want := []row{
		{"I can't go on, really", "suicidal", "one"},
		{"nice weather", "non-suicidal", "one"},
		{"so tired of everything", "suicidal", "two"},
		{"pizza night", "non-suicidal", "two"},
		{"why bother", "suicidal", "d3.csv"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("merged rows (-want +got):\n%s", diff)
	}
	if got[0].SourceLabel != "Potential Suicide post" {
		t.Errorf("SourceLabel = %q", got[0].SourceLabel)
	}
}

func TestLoadSourcesErrors(t *testing.T) {
	dir := t.TempDir()
	n := newNormalizer(t)

	missingCol := []Source{{Path: writeCSV(t, dir, "bad.csv", "a,b\n1,2\n"), TextColumn: "text", LabelColumn: "label"}}
	if _, err := LoadSources(context.Background(), missingCol, n); err == nil || !strings.Contains(err.Error(), "lacks columns") {
		t.Errorf("missing columns: err = %v", err)
	}

	missingFile := []Source{{Path: filepath.Join(dir, "nope.csv"), TextColumn: "text", LabelColumn: "label"}}
	if _, err := LoadSources(context.Background(), missingFile, n); err == nil {
		t.Error("missing file: want error")
	}

	empty := []Source{{Path: writeCSV(t, dir, "empty.csv", ""), TextColumn: "text", LabelColumn: "label"}}
	if _, err := LoadSources(context.Background(), empty, n); err == nil {
		t.Error("empty file: want error")
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	entries := []*models.DatasetEntry{
		{Text: "line one, with comma", Label: "suicidal"},
		{Text: "multi\nline \"quoted\"", Label: "non-suicidal"},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}

	src := Source{Name: "merged", TextColumn: "text", LabelColumn: "label"}
	back, err := ReadCSV(context.Background(), &buf, src, newNormalizer(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0].Text != entries[0].Text || back[1].Text != entries[1].Text {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestFilterCanonicalAndStats(t *testing.T) {
	entries := []*models.DatasetEntry{
		{Label: "suicidal"}, {Label: "non-suicidal"}, {Label: "depression"}, {Label: "suicidal"},
	}
	stats := Stats(entries)
	if stats.Total != 4 || stats.ByLabel["depression"] != 1 || stats.ByLabel["suicidal"] != 2 {
		t.Errorf("Stats = %+v", stats)
	}
	if got := FilterCanonical(entries); len(got) != 3 {
		t.Errorf("FilterCanonical kept %d entries, want 3", len(got))
	}
}
