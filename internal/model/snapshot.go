package model

import "sort"

// ModelMetrics holds the test-set scores reported for one model.
type ModelMetrics struct {
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
	F1        float64 `json:"f1" yaml:"f1"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	ROCAUC    float64 `json:"roc_auc" yaml:"roc_auc"`
}

// MetricColumns names the ModelMetrics values in wire order.
var MetricColumns = []string{"Accuracy", "F1 Score", "Precision", "Recall", "ROC AUC"}

// Values returns the metrics in MetricColumns order.
func (m ModelMetrics) Values() []float64 {
	return []float64{m.Accuracy, m.F1, m.Precision, m.Recall, m.ROCAUC}
}

// MetricsFromValues builds ModelMetrics from the backend's five-float row.
// ok is false when the row does not have exactly five entries.
func MetricsFromValues(v []float64) (ModelMetrics, bool) {
	if len(v) != len(MetricColumns) {
		return ModelMetrics{}, false
	}
	return ModelMetrics{Accuracy: v[0], F1: v[1], Precision: v[2], Recall: v[3], ROCAUC: v[4]}, true
}

var modelDisplayNames = map[string]string{
	"xgboost":       "XGBoost",
	"xgb":           "XGBoost",
	"random_forest": "Random Forest",
	"rf":            "Random Forest",
	"ensemble":      "Ensemble",
}

// DisplayName maps a backend model key to its human-readable name.
func DisplayName(key string) string {
	if name, ok := modelDisplayNames[key]; ok {
		return name
	}
	return key
}

// ModelInfoSnapshot is the client view of GET /model-info.
// Nil counters mean the backend did not report them.
type ModelInfoSnapshot struct {
	Metrics            map[string]ModelMetrics `json:"metrics" yaml:"metrics"`
	TrainingSamples    *int                    `json:"training_samples,omitempty" yaml:"training_samples,omitempty"`
	TestSamples        *int                    `json:"test_samples,omitempty" yaml:"test_samples,omitempty"`
	FeatureColumns     []string                `json:"feature_columns" yaml:"feature_columns"`
	CategoricalColumns []string                `json:"categorical_columns" yaml:"categorical_columns"`
	NumericColumns     []string                `json:"numeric_columns" yaml:"numeric_columns"`
	CategoryClasses    []string                `json:"category_classes" yaml:"category_classes"`
}

// ModelNames returns the metrics keys in a stable order: known models first
// (XGBoost, Random Forest, Ensemble), then the rest alphabetically.
func (s *ModelInfoSnapshot) ModelNames() []string {
	rank := func(k string) int {
		switch DisplayName(k) {
		case "XGBoost":
			return 0
		case "Random Forest":
			return 1
		case "Ensemble":
			return 2
		}
		return 3
	}
	names := make([]string, 0, len(s.Metrics))
	for k := range s.Metrics {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

// BestByColumn returns, for each metric column, the model key holding the
// highest value. Ties go to the earlier model in ModelNames order.
func (s *ModelInfoSnapshot) BestByColumn() []string {
	best := make([]string, len(MetricColumns))
	top := make([]float64, len(MetricColumns))
	for _, name := range s.ModelNames() {
		for i, v := range s.Metrics[name].Values() {
			if best[i] == "" || v > top[i] {
				best[i] = name
				top[i] = v
			}
		}
	}
	return best
}

// MonitoringSummary is the client view of GET /logs/summary. Every value is
// taken from the backend as-is; nil means not reported.
type MonitoringSummary struct {
	TotalPredictions     *int     `json:"total_predictions,omitempty" yaml:"total_predictions,omitempty"`
	FraudPredictions     *int     `json:"fraud_predictions,omitempty" yaml:"fraud_predictions,omitempty"`
	FraudRate            *float64 `json:"fraud_rate,omitempty" yaml:"fraud_rate,omitempty"`
	PredictionsWithDrift *int     `json:"predictions_with_drift,omitempty" yaml:"predictions_with_drift,omitempty"`
}

// FetchState tracks one backend read through its lifecycle.
type FetchState string

const (
	FetchNotStarted   FetchState = "not_started"
	FetchInFlight     FetchState = "in_flight"
	FetchSucceeded    FetchState = "succeeded"
	FetchTimedOut     FetchState = "timed_out"
	FetchUnreachable  FetchState = "unreachable"
	FetchBackendError FetchState = "backend_error"
)

// Terminal reports whether the state ends the fetch.
func (s FetchState) Terminal() bool {
	switch s {
	case FetchSucceeded, FetchTimedOut, FetchUnreachable, FetchBackendError:
		return true
	}
	return false
}

// CategorySource tells whether a category list came from the backend.
type CategorySource string

const (
	CategorySourceLive     CategorySource = "live"
	CategorySourceFallback CategorySource = "fallback"
)

// Categories is a resolved, sorted category list tagged with its source.
type Categories struct {
	Names  []string       `json:"names" yaml:"names"`
	Source CategorySource `json:"source" yaml:"source"`
}

// Contains reports whether name is one of the resolved categories.
func (c Categories) Contains(name string) bool {
	i := sort.SearchStrings(c.Names, name)
	return i < len(c.Names) && c.Names[i] == name
}
