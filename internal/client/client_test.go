package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"sentiment-service/internal/artifact"
	"sentiment-service/internal/handler"
	"sentiment-service/internal/middleware"
	"sentiment-service/internal/models"
	"sentiment-service/internal/service"
	"sentiment-service/internal/testutil"
)

func newServer(t *testing.T, arts *artifact.Artifacts) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	analyzer, err := service.NewAnalyzer(artifact.NewStaticStore(arts), 50, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	r := gin.New()
	r.Use(middleware.RequestID())
	handler.NewHandler(analyzer, zap.NewNop()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newServer(t, testutil.FixtureArtifacts())
	text := "Had a great day at the park with my friends!"

	pred, err := c.Predict(ctx, text)
	if err != nil {
		t.Fatal(err)
	}
	if pred.Label != models.NonSuicidal {
		t.Errorf("label = %q", pred.Label)
	}
	if diff := cmp.Diff(0.9534116245526023, pred.Confidence[models.NonSuicidal]); diff != "" {
		t.Errorf("confidence (-want +got):\n%s", diff)
	}

	n := 2
	exp, err := c.Explain(ctx, text, &n)
	if err != nil {
		t.Fatal(err)
	}
	if exp.Target != models.NonSuicidal || len(exp.Contributions) != 2 {
		t.Errorf("explanation = %+v", exp)
	}

	analysis, err := c.Analyze(ctx, "cli-1", text, nil)
	if err != nil {
		t.Fatal(err)
	}
	if analysis.RequestID != "cli-1" || analysis.Explanation == nil {
		t.Errorf("analysis = %+v", analysis)
	}

	info, err := c.GetModelInfo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.FeatureCount != len(testutil.FixtureTerms()) || info.Kind != artifact.KindLogisticRegression {
		t.Errorf("info = %+v", info)
	}

	health, err := c.HealthCheck(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" {
		t.Errorf("health = %+v", health)
	}
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	c := newServer(t, testutil.FixtureArtifacts())
	_, err := c.Predict(ctx, "   ")
	if !errors.Is(err, models.ErrEmptyInput) {
		t.Errorf("blank text: err = %v, want ErrEmptyInput", err)
	}
	zero := 0
	_, err = c.Explain(ctx, "heavy", &zero)
	if !errors.Is(err, models.ErrInvalidTopN) {
		t.Errorf("zero top_n: err = %v, want ErrInvalidTopN", err)
	}

	opaque := newServer(t, testutil.OpaqueArtifacts())
	_, err = opaque.Explain(ctx, "heavy", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("opaque explain: err = %v", err)
	}
	if !errors.Is(err, models.ErrUnsupportedModel) {
		t.Errorf("err = %v, want ErrUnsupportedModel", err)
	}
}
