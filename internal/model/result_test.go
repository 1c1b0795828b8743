package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestSeverityFor_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    float64
		want SeverityTier
	}{
		{1.0, SeverityCritical},
		{0.82, SeverityCritical},
		{0.70, SeverityCritical},
		{0.6999, SeverityWarning},
		{0.50, SeverityWarning},
		{0.4999, SeverityInfo},
		{0.30, SeverityInfo},
		{0.2999, SeverityOK},
		{0.0, SeverityOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityFor(tt.p), "p=%v", tt.p)
	}
}

func TestSeverityFor_AlwaysOneTier(t *testing.T) {
	t.Parallel()

	valid := map[SeverityTier]bool{
		SeverityCritical: true, SeverityWarning: true, SeverityInfo: true, SeverityOK: true,
	}
	for i := 0; i <= 10000; i++ {
		p := float64(i) / 10000
		assert.True(t, valid[SeverityFor(p)], "p=%v", p)
	}
}

func TestLabelFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LabelFraud, LabelFor(ptr(0.5)))
	assert.Equal(t, LabelFraud, LabelFor(ptr(0.91)))
	assert.Equal(t, LabelLegit, LabelFor(ptr(0.4999)))
	assert.Equal(t, LabelNotReported, LabelFor(nil))
}

func TestScoringResult_ModelScores(t *testing.T) {
	t.Parallel()

	r := &ScoringResult{
		TransactionID:       "t1",
		Verdict:             "Fraud",
		XGBoostProbability:  ptr(0.9),
		EnsembleProbability: 0.45,
	}

	scores := r.ModelScores()
	require.Len(t, scores, 3)
	assert.Equal(t, "XGBoost", scores[0].Name)
	assert.Equal(t, LabelFraud, scores[0].Label)
	assert.Equal(t, "Random Forest", scores[1].Name)
	assert.Nil(t, scores[1].Probability)
	assert.Equal(t, LabelNotReported, scores[1].Label)
	assert.Equal(t, "Ensemble", scores[2].Name)
	assert.Equal(t, LabelLegit, scores[2].Label)
	assert.Equal(t, SeverityInfo, r.Severity())
	assert.False(t, r.HasDrift())
}
