package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/monitoring"
	"github.com/sells-group/fraud-cli/internal/resilience"
)

func fp(f float64) *float64 { return &f }
func ip(n int) *int { return &n }

func TestProbabilityBar(t *testing.T) {
	tests := []struct {
		p      float64
		filled int
		pct    string
	}{
		{0, 0, "  0.0%"},
		{0.5, 15, " 50.0%"},
		{0.785, 24, " 78.5%"},
		{1, 30, "100.0%"},
		{1.7, 30, "100.0%"},
	}
	for _, tt := range tests {
		bar := probabilityBar(tt.p)
		assert.Equal(t, tt.filled, strings.Count(bar, "#"), "p=%v", tt.p)
		assert.Equal(t, barWidth-tt.filled, strings.Count(bar, "-"), "p=%v", tt.p)
		assert.True(t, strings.HasSuffix(bar, tt.pct), "p=%v bar=%q", tt.p, bar)
	}
}

func TestFormatResult(t *testing.T) {
	r := &model.ScoringResult{
		TransactionID:       "tx-1",
		Verdict:             "LEGIT",
		XGBoostProbability:  fp(0.12),
		EnsembleProbability: 0.34,
		DriftWarnings:       []string{"amount outside training range"},
	}

	var buf bytes.Buffer
	formatResult(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "[INFO] LEGIT")
	assert.Contains(t, out, "Transaction: tx-1")
	assert.Contains(t, out, "XGBoost")
	assert.Contains(t, out, "12.0%")
	assert.Contains(t, out, "not reported")
	assert.Contains(t, out, "Drift warnings (1):")
	assert.Contains(t, out, "amount outside training range")
}

func TestFormatResult_NoDrift(t *testing.T) {
	var buf bytes.Buffer
	formatResult(&buf, &model.ScoringResult{Verdict: "LEGIT", EnsembleProbability: 0.02, DriftWarnings: []string{}})

	assert.Contains(t, buf.String(), "[OK] LEGIT")
	assert.NotContains(t, buf.String(), "Drift warnings")
}

func TestFormatFailure(t *testing.T) {
	verr := &resilience.ValidationError{}
	verr.Add("age", "must be between 18 and 90")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{"validation", verr, []string{"Invalid input:", "age: must be between 18 and 90", "nothing was sent"}},
		{"timed out", &resilience.TimedOutError{Endpoint: "/predict"}, []string{"timed out", "waking up"}},
		{"unreachable", &resilience.UnreachableError{Endpoint: "/predict"}, []string{"unreachable", "30 seconds"}},
		{"backend", resilience.NewStatusError("/predict", 500, []byte("boom")), []string{"API error 500", "boom"}},
		{"malformed", resilience.NewMalformedError("/predict", []byte("{}"), "missing ensemble_probability"), []string{"Detail: missing ensemble_probability"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatFailure(&buf, tt.err)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestFormatSnapshot_Full(t *testing.T) {
	snap := &monitoring.Snapshot{
		APIURL: "https://fraud.example.com",
		ModelInfo: &model.ModelInfoSnapshot{
			Metrics: map[string]model.ModelMetrics{
				"xgboost":  {Accuracy: 0.99, F1: 0.80, Precision: 0.90, Recall: 0.70, ROCAUC: 0.98},
				"ensemble": {Accuracy: 0.98, F1: 0.85, Precision: 0.85, Recall: 0.75, ROCAUC: 0.97},
			},
			TrainingSamples:    ip(1049575),
			FeatureColumns:     []string{"category", "amount"},
			CategoricalColumns: []string{"category"},
		},
		ModelInfoStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
		Monitoring: &model.MonitoringSummary{
			TotalPredictions: ip(1234),
			FraudRate:        fp(4.5454),
		},
		MonitoringStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
	}

	var buf bytes.Buffer
	formatSnapshot(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "API: https://fraud.example.com")
	assert.Contains(t, out, "XGBoost")
	assert.Contains(t, out, "0.9900 *")
	assert.Contains(t, out, "0.8500 *")
	assert.Contains(t, out, "1,049,575")
	assert.Contains(t, out, "Test samples:")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "4.5%")
	assert.NotContains(t, out, "waking up")
}

func TestFormatSnapshot_PartialFailure(t *testing.T) {
	err := &resilience.TimedOutError{Endpoint: "/logs/summary"}
	snap := &monitoring.Snapshot{
		ModelInfo:       &model.ModelInfoSnapshot{},
		ModelInfoStatus: monitoring.FetchStatus{State: model.FetchSucceeded},
		MonitoringStatus: monitoring.FetchStatus{
			State:   model.FetchTimedOut,
			Err:     err,
			Message: resilience.Remediation(err),
		},
	}

	var buf bytes.Buffer
	formatSnapshot(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "Backend is waking up")
	assert.Contains(t, out, "No model metrics reported.")
	assert.Contains(t, out, "API timed out")
}

func TestFormatCategories_Fallback(t *testing.T) {
	var buf bytes.Buffer
	formatCategories(&buf, model.Categories{Names: []string{"Grocery"}, Source: model.CategorySourceFallback})

	assert.Contains(t, buf.String(), "Categories (1, fallback)")
	assert.Contains(t, buf.String(), "built-in list")
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, formatYAML, model.Categories{Names: []string{"Grocery"}, Source: model.CategorySourceLive}))

	var got model.Categories
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, model.CategorySourceLive, got.Source)
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("table"))
	assert.NoError(t, checkFormat("json"))
	assert.NoError(t, checkFormat("yaml"))
	assert.Error(t, checkFormat("csv"))
}
