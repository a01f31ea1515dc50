package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/middleware"
	"sentiment-service/internal/models"
	"sentiment-service/internal/service"
	"sentiment-service/internal/testutil"
)

const heavyText = "I feel like giving up. Everything is so heavy."

func newAPI(t *testing.T, arts *artifact.Artifacts) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	analyzer, err := service.NewAnalyzer(artifact.NewStaticStore(arts), 50, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	NewHandler(analyzer, zap.NewNop()).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestPredict(t *testing.T) {
	r := newAPI(t, testutil.FixtureArtifacts())

	w := do(t, r, http.MethodPost, "/api/v1/predict", `{"text":"`+heavyText+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[models.PredictionResult](t, w)
	if got.Label != models.Suicidal {
		t.Errorf("label = %q", got.Label)
	}
	if diff := cmp.Diff(0.9303918280481744, got.Confidence[models.Suicidal]); diff != "" {
		t.Errorf("confidence (-want +got):\n%s", diff)
	}
}

func TestExplain(t *testing.T) {
	r := newAPI(t, testutil.FixtureArtifacts())

	w := do(t, r, http.MethodPost, "/api/v1/explain", `{"text":"`+heavyText+`","top_n":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[models.Explanation](t, w)
	var tokens []string
	for _, c := range got.Contributions {
		tokens = append(tokens, c.Token)
	}
	if diff := cmp.Diff([]string{"giving", "heavy", "up"}, tokens); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestAnalyzeEchoesRequestID(t *testing.T) {
	r := newAPI(t, testutil.FixtureArtifacts())

	w := do(t, r, http.MethodPost, "/api/v1/analyze", `{"text":"`+heavyText+`"}`, middleware.RequestIDHeader, "req-42")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[models.Analysis](t, w)
	if got.RequestID != "req-42" {
		t.Errorf("request_id = %q", got.RequestID)
	}
	if got.Explanation == nil || got.ExplanationError != "" {
		t.Errorf("explanation missing: %+v", got)
	}
}

func TestErrorMapping(t *testing.T) {
	linear := newAPI(t, testutil.FixtureArtifacts())
	opaque := newAPI(t, testutil.OpaqueArtifacts())

	tests := []struct {
		name string
		r    *gin.Engine
		path string
		body string
		want int
	}{
		{"missing text", linear, "/api/v1/predict", `{}`, http.StatusBadRequest},
		{"malformed body", linear, "/api/v1/predict", `{"text":`, http.StatusBadRequest},
		{"blank text", linear, "/api/v1/predict", `{"text":"   "}`, http.StatusBadRequest},
		{"blank explain", linear, "/api/v1/explain", `{"text":"\t\n"}`, http.StatusBadRequest},
		{"zero top_n", linear, "/api/v1/explain", `{"text":"heavy","top_n":0}`, http.StatusBadRequest},
		{"negative top_n", linear, "/api/v1/analyze", `{"text":"heavy","top_n":-1}`, http.StatusBadRequest},
		{"opaque explain", opaque, "/api/v1/explain", `{"text":"heavy"}`, http.StatusUnprocessableEntity},
		{"opaque predict", opaque, "/api/v1/predict", `{"text":"heavy"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, tt.r, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAnalyzeOpaqueModel(t *testing.T) {
	r := newAPI(t, testutil.OpaqueArtifacts())

	w := do(t, r, http.MethodPost, "/api/v1/analyze", `{"text":"heavy"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	got := decode[models.Analysis](t, w)
	if got.Explanation != nil || got.ExplanationError == "" {
		t.Errorf("want explanation_error only, got %+v", got)
	}
	if got.Prediction == nil || got.Prediction.Label != models.Suicidal {
		t.Errorf("prediction = %+v", got.Prediction)
	}
}

func TestModelInfoAndHealth(t *testing.T) {
	r := newAPI(t, testutil.FixtureArtifacts())

	w := do(t, r, http.MethodGet, "/api/v1/model/info", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	info := decode[models.ModelInfo](t, w)
	if info.FeatureCount != len(testutil.FixtureTerms()) || !info.Explainable {
		t.Errorf("info = %+v", info)
	}

	w = do(t, r, http.MethodGet, "/health", "")
	health := decode[map[string]string](t, w)
	if health["status"] != "healthy" {
		t.Errorf("health = %v", health)
	}
}

// memoryRepo is an in-memory DatasetRepository.
type memoryRepo struct {
	mu      sync.Mutex
	entries []*models.DatasetEntry
}

func (m *memoryRepo) SaveEntries(_ context.Context, entries []*models.DatasetEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		e.ID = int64(len(m.entries) + 1)
		e.BatchID = "batch"
		e.ImportedAt = time.Unix(0, 0).UTC()
		m.entries = append(m.entries, e)
	}
	return "batch", nil
}

func (m *memoryRepo) GetAllEntries(context.Context) ([]*models.DatasetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.DatasetEntry(nil), m.entries...), nil
}

func (m *memoryRepo) GetEntriesByLabel(_ context.Context, label string) ([]*models.DatasetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.DatasetEntry
	for _, e := range m.entries {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetStats(context.Context) (models.DatasetStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := models.DatasetStats{Total: len(m.entries), ByLabel: map[string]int{}}
	for _, e := range m.entries {
		stats.ByLabel[e.Label]++
	}
	return stats, nil
}

func newDatasetAPI(secret string) (*gin.Engine, *memoryRepo) {
	gin.SetMode(gin.TestMode)
	repo := &memoryRepo{}
	r := gin.New()
	r.Use(middleware.RequestID())
	NewDatasetHandler(repo, zap.NewNop()).RegisterRoutes(r, middleware.AuthMiddleware(secret, zap.NewNop()))
	return r, repo
}

func TestDatasetRoutes(t *testing.T) {
	r, repo := newDatasetAPI("")

	w := do(t, r, http.MethodPost, "/api/v1/datasets/entries", `{"text":"can't keep going","label":"Suicidal"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	created := decode[models.DatasetEntry](t, w)
	if created.Label != "suicidal" || created.Source != "manual" || created.ID != 1 {
		t.Errorf("created = %+v", created)
	}

	do(t, r, http.MethodPost, "/api/v1/datasets/entries", `{"text":"fine, thanks","label":"non-suicidal","source":"form"}`)

	for _, body := range []string{`{"text":"x","label":"depressed"}`, `{"text":"  ","label":"suicidal"}`, `{"label":"suicidal"}`} {
		if w := do(t, r, http.MethodPost, "/api/v1/datasets/entries", body); w.Code != http.StatusBadRequest {
			t.Errorf("create %s: status = %d, want 400", body, w.Code)
		}
	}
	if len(repo.entries) != 2 {
		t.Fatalf("repo has %d entries, want 2", len(repo.entries))
	}

	w = do(t, r, http.MethodGet, "/api/v1/datasets/entries?label=suicidal", "")
	listed := decode[struct {
		Entries []models.DatasetEntry `json:"entries"`
		Count   int                   `json:"count"`
	}](t, w)
	if listed.Count != 1 || listed.Entries[0].Text != "can't keep going" {
		t.Errorf("listed = %+v", listed)
	}
	if w := do(t, r, http.MethodGet, "/api/v1/datasets/entries?label=sad", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad label filter: status = %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/v1/datasets/stats", "")
	stats := decode[models.DatasetStats](t, w)
	if diff := cmp.Diff(models.DatasetStats{Total: 2, ByLabel: map[string]int{"suicidal": 1, "non-suicidal": 1}}, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}

	w = do(t, r, http.MethodGet, "/api/v1/datasets/export", "")
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := "text,label\ncan't keep going,suicidal\n\"fine, thanks\",non-suicidal\n"
	if diff := cmp.Diff(want, w.Body.String()); diff != "" {
		t.Errorf("export (-want +got):\n%s", diff)
	}
}

func TestDatasetRoutesRequireToken(t *testing.T) {
	r, _ := newDatasetAPI("s3cret")

	if w := do(t, r, http.MethodGet, "/api/v1/datasets/stats", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	token, _, err := middleware.IssueToken("s3cret", "ops", "admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	w := do(t, r, http.MethodGet, "/api/v1/datasets/stats", "", "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Errorf("with token: status = %d, want 200", w.Code)
	}
}

