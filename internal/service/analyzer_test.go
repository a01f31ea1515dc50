package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/models"
	"sentiment-service/internal/testutil"
)

func newAnalyzer(t *testing.T, arts *artifact.Artifacts, maxTopN int) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(artifact.NewStaticStore(arts), maxTopN, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func intPtr(n int) *int { return &n }

func TestAnalyze(t *testing.T) {
	a := newAnalyzer(t, testutil.FixtureArtifacts(), 50)

	got, err := a.Analyze("req-1", "I feel like giving up. Everything is so heavy.", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.RequestID != "req-1" {
		t.Errorf("RequestID = %q", got.RequestID)
	}
	if got.Prediction.Label != models.Suicidal {
		t.Errorf("Label = %q", got.Prediction.Label)
	}
	if got.Explanation == nil || got.Explanation.Target != got.Prediction.Label {
		t.Fatalf("Explanation = %+v", got.Explanation)
	}
	if got.ExplanationError != "" {
		t.Errorf("ExplanationError = %q", got.ExplanationError)
	}
}

func TestAnalyzeGeneratesRequestID(t *testing.T) {
	a := newAnalyzer(t, testutil.FixtureArtifacts(), 50)
	got, err := a.Analyze("", "heavy", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.RequestID) != 36 {
		t.Errorf("RequestID = %q, want a UUID", got.RequestID)
	}
}

func TestAnalyzeUnsupportedModelKeepsPrediction(t *testing.T) {
	a := newAnalyzer(t, testutil.OpaqueArtifacts(0.3, 0.7), 50)

	got, err := a.Analyze("req-2", "heavy", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.Prediction == nil || got.Prediction.Label != models.Suicidal {
		t.Errorf("Prediction = %+v", got.Prediction)
	}
	if got.Explanation != nil || got.ExplanationError == "" {
		t.Errorf("want explanation error, got %+v / %q", got.Explanation, got.ExplanationError)
	}

	if _, err := a.Explain("heavy", nil); !errors.Is(err, models.ErrUnsupportedModel) {
		t.Errorf("Explain err = %v, want ErrUnsupportedModel", err)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := newAnalyzer(t, testutil.FixtureArtifacts(), 50)
	if _, err := a.Analyze("", " ", nil); !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("err = %v, want ErrEmptyInput", err)
	}
}

func TestExplainTopNResolution(t *testing.T) {
	a := newAnalyzer(t, testutil.FixtureArtifacts(), 3)
	text := "I feel like giving up. Everything is so heavy."

	tests := []struct {
		name string
		topN *int
		want int
	}{
		{"default capped by max", nil, 3},
		{"explicit", intPtr(2), 2},
		{"capped", intPtr(20), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Explain(text, tt.topN)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.Contributions) != tt.want {
				t.Errorf("got %d contributions, want %d", len(got.Contributions), tt.want)
			}
			if got.TopN != tt.want {
				t.Errorf("TopN = %d, want the effective limit %d", got.TopN, tt.want)
			}
		})
	}

	if _, err := a.Explain(text, intPtr(0)); !errors.Is(err, models.ErrInvalidTopN) {
		t.Errorf("top_n 0: err = %v, want ErrInvalidTopN", err)
	}
}

func TestNewAnalyzerLoadFailure(t *testing.T) {
	store := artifact.NewVersionedStore(t.TempDir(), zap.NewNop())
	if _, err := NewAnalyzer(store, 10, zap.NewNop()); !errors.Is(err, artifact.ErrArtifactLoad) {
		t.Errorf("err = %v, want ErrArtifactLoad", err)
	}
}

func TestExplainLogsTopNCap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a, err := NewAnalyzer(artifact.NewStaticStore(testutil.FixtureArtifacts()), 3, zap.New(core))
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.Explain("I feel like giving up. Everything is so heavy.", intPtr(10))
	if err != nil {
		t.Fatal(err)
	}
	if got.TopN != 3 || len(got.Contributions) != 3 {
		t.Errorf("TopN = %d with %d contributions, want 3", got.TopN, len(got.Contributions))
	}

	capped := logs.FilterMessage("Capping top_n").All()
	if len(capped) != 1 {
		t.Fatalf("got %d cap log entries, want 1", len(capped))
	}
	if fields := capped[0].ContextMap(); fields["requested"] != int64(10) || fields["max_top_n"] != int64(3) {
		t.Errorf("log fields = %v", fields)
	}
}
