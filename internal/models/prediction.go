package models

// PredictionResult is the outcome of classifying a single text.
type PredictionResult struct {
	Label      Label             `json:"label"`
	Confidence map[Label]float64 `json:"confidence"` // sums to 1.0
}

// Contribution is a token's signed share of the target class score.
type Contribution struct {
	Token  string  `json:"token"`
	Weight float64 `json:"weight"` // positive pushes toward the target class
	Rank   int     `json:"rank"`   // 1-based
}

// Explanation lists the tokens that drove a prediction, strongest first.
type Explanation struct {
	Target        Label          `json:"target"`
	TopN          int            `json:"top_n"` // effective limit after capping
	Bias          float64        `json:"bias"`
	Contributions []Contribution `json:"contributions"`
}

// Analysis combines a prediction with its explanation for one request.
type Analysis struct {
	RequestID        string            `json:"request_id"`
	Text             string            `json:"text"`
	Prediction       *PredictionResult `json:"prediction"`
	Explanation      *Explanation      `json:"explanation,omitempty"`
	ExplanationError string            `json:"explanation_error,omitempty"`
	ProcessingTimeMs float64           `json:"processing_time_ms"`
}

// AnalyzeRequest is the body of predict, explain and analyze calls.
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
	TopN *int   `json:"top_n,omitempty"`
}

// ModelInfo describes the artifacts the service is running with.
type ModelInfo struct {
	Version      string             `json:"version"`
	Kind         string             `json:"kind"`
	Classes      []Label            `json:"classes"`
	FeatureCount int                `json:"feature_count"`
	Explainable  bool               `json:"explainable"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}
