package model

// SeverityTier buckets an ensemble probability for visual emphasis.
type SeverityTier string

const (
	SeverityCritical SeverityTier = "CRITICAL"
	SeverityWarning  SeverityTier = "WARNING"
	SeverityInfo     SeverityTier = "INFO"
	SeverityOK       SeverityTier = "OK"
)

// Tier thresholds. Each bound is inclusive for the tier it starts.
const (
	CriticalThreshold = 0.70
	WarningThreshold  = 0.50
	InfoThreshold     = 0.30
)

// SeverityFor maps an ensemble probability to its tier.
func SeverityFor(p float64) SeverityTier {
	switch {
	case p >= CriticalThreshold:
		return SeverityCritical
	case p >= WarningThreshold:
		return SeverityWarning
	case p >= InfoThreshold:
		return SeverityInfo
	default:
		return SeverityOK
	}
}

// ModelLabel is the per-model fraud call shown next to each probability.
type ModelLabel string

const (
	LabelFraud       ModelLabel = "FRAUD"
	LabelLegit       ModelLabel = "LEGIT"
	LabelNotReported ModelLabel = "not reported"
)

// FraudThreshold splits FRAUD from LEGIT for a single model's probability.
const FraudThreshold = 0.5

// LabelFor classifies a single model probability. A nil probability means
// the backend did not report that model.
func LabelFor(p *float64) ModelLabel {
	if p == nil {
		return LabelNotReported
	}
	if *p >= FraudThreshold {
		return LabelFraud
	}
	return LabelLegit
}

// UnknownVerdict is used when the response carries no headline label.
const UnknownVerdict = "Unknown"

// ScoringResult is the normalized outcome of one POST /predict call. Its
// JSON form uses the canonical field names, so it can be fed back through
// the interpreter unchanged.
type ScoringResult struct {
	TransactionID           string   `json:"transaction_id" yaml:"transaction_id"`
	Verdict                 string   `json:"verdict" yaml:"verdict"`
	XGBoostProbability      *float64 `json:"xgboost_probability,omitempty" yaml:"xgboost_probability,omitempty"`
	RandomForestProbability *float64 `json:"random_forest_probability,omitempty" yaml:"random_forest_probability,omitempty"`
	EnsembleProbability     float64  `json:"ensemble_probability" yaml:"ensemble_probability"`
	DriftWarnings           []string `json:"drift_warnings" yaml:"drift_warnings"`
}

// Severity derives the tier from the ensemble probability.
func (r *ScoringResult) Severity() SeverityTier {
	return SeverityFor(r.EnsembleProbability)
}

// ModelScore is one row of the per-model breakdown.
type ModelScore struct {
	Name        string     `json:"name" yaml:"name"`
	Probability *float64   `json:"probability,omitempty" yaml:"probability,omitempty"`
	Label       ModelLabel `json:"label" yaml:"label"`
}

// ModelScores lists XGBoost, Random Forest and Ensemble in display order.
func (r *ScoringResult) ModelScores() []ModelScore {
	ensemble := r.EnsembleProbability
	return []ModelScore{
		{Name: "XGBoost", Probability: r.XGBoostProbability, Label: LabelFor(r.XGBoostProbability)},
		{Name: "Random Forest", Probability: r.RandomForestProbability, Label: LabelFor(r.RandomForestProbability)},
		{Name: "Ensemble", Probability: &ensemble, Label: LabelFor(&ensemble)},
	}
}

// HasDrift reports whether the backend flagged any feature drift.
func (r *ScoringResult) HasDrift() bool {
	return len(r.DriftWarnings) > 0
}
