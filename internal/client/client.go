// Package client talks to a running sentiment service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sentiment-service/internal/models"
)

// Client is a client for the sentiment service API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	Version      string `json:"version"`
	ModelVersion string `json:"model_version"`
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sentiment service returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match service errors against the model sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnprocessableEntity:
		return target == models.ErrUnsupportedModel
	case http.StatusBadRequest:
		return (target == models.ErrEmptyInput || target == models.ErrInvalidTopN) &&
			strings.Contains(e.Message, target.Error())
	}
	return false
}

// NewClient creates a new sentiment service client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Predict classifies a single text.
func (c *Client) Predict(ctx context.Context, text string) (*models.PredictionResult, error) {
	var result models.PredictionResult
	err := c.do(ctx, http.MethodPost, "/api/v1/predict", "", models.AnalyzeRequest{Text: text}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Explain returns the token contributions for text. A nil topN lets the
// service pick its default.
func (c *Client) Explain(ctx context.Context, text string, topN *int) (*models.Explanation, error) {
	var result models.Explanation
	err := c.do(ctx, http.MethodPost, "/api/v1/explain", "", models.AnalyzeRequest{Text: text, TopN: topN}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Analyze runs prediction and explanation. requestID is sent as
// X-Request-ID when set.
func (c *Client) Analyze(ctx context.Context, requestID, text string, topN *int) (*models.Analysis, error) {
	var result models.Analysis
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze", requestID, models.AnalyzeRequest{Text: text, TopN: topN}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetModelInfo retrieves information about the loaded model
func (c *Client) GetModelInfo(ctx context.Context) (*models.ModelInfo, error) {
	var result models.ModelInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/model/info", "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck checks if the sentiment service is healthy
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var result HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", "", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path, requestID string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		var payload struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

