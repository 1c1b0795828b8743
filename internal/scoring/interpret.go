package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// predictResponse accepts every field name the backend has used.
type predictResponse struct {
	TransactionID           json.RawMessage `json:"transaction_id"`
	Verdict                 *string         `json:"verdict"`
	EnsembleVerdict         *string         `json:"ensemble_verdict"`
	XGBoostProbability      *float64        `json:"xgboost_probability"`
	RandomForestProbability *float64        `json:"random_forest_probability"`
	EnsembleProbability     *float64        `json:"ensemble_probability"`
	DriftWarnings           []string        `json:"drift_warnings"`
}

// Interpret normalizes a /predict response body into a ScoringResult.
// A body without ensemble_probability, or with any probability outside
// [0,1], is a *resilience.BackendError. Interpreting the JSON encoding of a
// returned result yields the same result.
func Interpret(body []byte) (*model.ScoringResult, error) {
	var raw predictResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, resilience.NewMalformedError(fraudapi.PathPredict, body, "decode response: "+err.Error())
	}

	if raw.EnsembleProbability == nil {
		return nil, resilience.NewMalformedError(fraudapi.PathPredict, body, "missing ensemble_probability")
	}
	probs := []struct {
		name string
		p    *float64
	}{
		{"ensemble_probability", raw.EnsembleProbability},
		{"xgboost_probability", raw.XGBoostProbability},
		{"random_forest_probability", raw.RandomForestProbability},
	}
	for _, pr := range probs {
		if pr.p != nil && (*pr.p < 0 || *pr.p > 1) {
			return nil, resilience.NewMalformedError(fraudapi.PathPredict, body, fmt.Sprintf("%s %v outside [0,1]", pr.name, *pr.p))
		}
	}

	warnings := raw.DriftWarnings
	if warnings == nil {
		warnings = []string{}
	}

	return &model.ScoringResult{
		TransactionID:           transactionID(raw.TransactionID),
		Verdict:                 ResolveVerdict(raw.Verdict, raw.EnsembleVerdict),
		XGBoostProbability:      raw.XGBoostProbability,
		RandomForestProbability: raw.RandomForestProbability,
		EnsembleProbability:     *raw.EnsembleProbability,
		DriftWarnings:           warnings,
	}, nil
}

// ResolveVerdict picks the headline label: verdict first, then
// ensemble_verdict, then model.UnknownVerdict. Blank values count as absent.
func ResolveVerdict(verdict, ensembleVerdict *string) string {
	for _, v := range []*string{verdict, ensembleVerdict} {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return model.UnknownVerdict
}

// transactionID accepts a string or a bare JSON number.
func transactionID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
