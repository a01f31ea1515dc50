package training

import (
	"fmt"

	"sentiment-service/internal/models"
)

// ClassMetrics holds the per-class scores of a classification report.
type ClassMetrics struct {
	Label     models.Label `json:"label"`
	Precision float64      `json:"precision"`
	Recall    float64      `json:"recall"`
	F1        float64      `json:"f1"`
	Support   int          `json:"support"`
}

// Evaluation summarises predictions against held-out targets.
type Evaluation struct {
	Accuracy float64        `json:"accuracy"`
	MacroF1  float64        `json:"macro_f1"`
	Classes  []ClassMetrics `json:"classes"`
}

// Evaluate compares predicted class indices with true ones. Undefined ratios
// (no predictions or no support) are reported as zero.
func Evaluate(classes []models.Label, y, yhat []int) (Evaluation, error) {
	if len(y) != len(yhat) {
		return Evaluation{}, fmt.Errorf("%d targets but %d predictions", len(y), len(yhat))
	}

	k := len(classes)
	tp := make([]int, k)
	predicted := make([]int, k)
	support := make([]int, k)
	correct := 0
	for i := range y {
		if y[i] < 0 || y[i] >= k || yhat[i] < 0 || yhat[i] >= k {
			return Evaluation{}, fmt.Errorf("class index out of range at row %d", i)
		}
		support[y[i]]++
		predicted[yhat[i]]++
		if y[i] == yhat[i] {
			tp[y[i]]++
			correct++
		}
	}

	ev := Evaluation{Classes: make([]ClassMetrics, k)}
	if len(y) > 0 {
		ev.Accuracy = float64(correct) / float64(len(y))
	}
	for c := range classes {
		m := ClassMetrics{Label: classes[c], Support: support[c]}
		m.Precision = ratio(tp[c], predicted[c])
		m.Recall = ratio(tp[c], support[c])
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		ev.Classes[c] = m
		ev.MacroF1 += m.F1
	}
	if k > 0 {
		ev.MacroF1 /= float64(k)
	}
	return ev, nil
}

// Metrics flattens the evaluation for the artifact manifest.
func (e Evaluation) Metrics() map[string]float64 {
	out := map[string]float64{
		"accuracy": e.Accuracy,
		"macro_f1": e.MacroF1,
	}
	for _, c := range e.Classes {
		out["f1_"+string(c.Label)] = c.F1
	}
	return out
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
