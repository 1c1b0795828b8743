package model

// FormInput holds the raw values a user entered for a transaction check.
// Whole-number fields stay integers here; TransactionFeatures carries the
// float representation the scoring endpoint expects.
type FormInput struct {
	Category        string  `json:"category" yaml:"category"`
	Amount          float64 `json:"amount" yaml:"amount"`
	Age             int     `json:"age" yaml:"age"`
	DaysUntilExpiry int     `json:"days_until_expiry" yaml:"days_until_expiry"`
	LocDelta        float64 `json:"loc_delta" yaml:"loc_delta"`
	LocDeltaMavg    float64 `json:"loc_delta_mavg" yaml:"loc_delta_mavg"`
	TransVolumeMavg float64 `json:"trans_volume_mavg" yaml:"trans_volume_mavg"`
	TransVolumeMstd float64 `json:"trans_volume_mstd" yaml:"trans_volume_mstd"`
	TransFreq       int     `json:"trans_freq" yaml:"trans_freq"`
}

// DefaultFormInput returns the values pre-filled in every entry surface.
func DefaultFormInput() FormInput {
	return FormInput{
		Category:        "Grocery",
		Amount:          150.50,
		Age:             35,
		DaysUntilExpiry: 365,
		LocDelta:        0.05,
		LocDeltaMavg:    0.03,
		TransVolumeMavg: 120.0,
		TransVolumeMstd: 45.0,
		TransFreq:       3,
	}
}

// TransactionFeatures is the validated request body for POST /predict.
// Values are never modified after the builder returns them.
type TransactionFeatures struct {
	Category             string  `json:"category"`
	Amount               float64 `json:"amount"`
	AgeAtTransaction     float64 `json:"age_at_transaction"`
	DaysUntilCardExpires float64 `json:"days_until_card_expires"`
	LocDelta             float64 `json:"loc_delta"`
	TransVolumeMavg      float64 `json:"trans_volume_mavg"`
	TransVolumeMstd      float64 `json:"trans_volume_mstd"`
	TransFreq            float64 `json:"trans_freq"`
	LocDeltaMavg         float64 `json:"loc_delta_mavg"`
}
