package scoring

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/fraud-cli/internal/config"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/resilience"
)

// Fixed field ranges. Amount, volume and frequency caps come from config.
const (
	MinAmount          = 0.01
	MinAge             = 18
	MaxAge             = 90
	MinDaysUntilExpiry = 0
	MaxDaysUntilExpiry = 3650
)

// DefaultFormLimits mirrors the config defaults.
func DefaultFormLimits() config.FormConfig {
	return config.FormConfig{
		MaxAmount:     50000,
		MaxVolumeMavg: 10000,
		MaxVolumeMstd: 5000,
		MaxTransFreq:  50,
	}
}

// RequestBuilder validates form input and produces the /predict payload.
type RequestBuilder struct {
	limits config.FormConfig
}

// NewRequestBuilder creates a builder. Zero caps fall back to the defaults.
func NewRequestBuilder(limits config.FormConfig) *RequestBuilder {
	def := DefaultFormLimits()
	if limits.MaxAmount <= 0 {
		limits.MaxAmount = def.MaxAmount
	}
	if limits.MaxVolumeMavg <= 0 {
		limits.MaxVolumeMavg = def.MaxVolumeMavg
	}
	if limits.MaxVolumeMstd <= 0 {
		limits.MaxVolumeMstd = def.MaxVolumeMstd
	}
	if limits.MaxTransFreq <= 0 {
		limits.MaxTransFreq = def.MaxTransFreq
	}
	return &RequestBuilder{limits: limits}
}

// Limits returns the caps the builder enforces.
func (b *RequestBuilder) Limits() config.FormConfig {
	return b.limits
}

// Build validates in and returns the request features. Every violated field
// is reported in one *resilience.ValidationError. Category membership in
// known is advisory: an unknown category only produces a warning.
func (b *RequestBuilder) Build(in model.FormInput, known model.Categories) (model.TransactionFeatures, []string, error) {
	verr := &resilience.ValidationError{}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		verr.Add("category", "must not be empty")
	}

	checkRange(verr, "amount", in.Amount, MinAmount, b.limits.MaxAmount)
	if in.Age < MinAge || in.Age > MaxAge {
		verr.Add("age", "must be between %d and %d", MinAge, MaxAge)
	}
	if in.DaysUntilExpiry < MinDaysUntilExpiry || in.DaysUntilExpiry > MaxDaysUntilExpiry {
		verr.Add("days_until_expiry", "must be between %d and %d", MinDaysUntilExpiry, MaxDaysUntilExpiry)
	}
	checkRange(verr, "loc_delta", in.LocDelta, 0, 1)
	checkRange(verr, "loc_delta_mavg", in.LocDeltaMavg, 0, 1)
	checkRange(verr, "trans_volume_mavg", in.TransVolumeMavg, 0, b.limits.MaxVolumeMavg)
	checkRange(verr, "trans_volume_mstd", in.TransVolumeMstd, 0, b.limits.MaxVolumeMstd)
	if in.TransFreq < 1 || in.TransFreq > b.limits.MaxTransFreq {
		verr.Add("trans_freq", "must be between 1 and %d", b.limits.MaxTransFreq)
	}

	if err := verr.ErrOrNil(); err != nil {
		return model.TransactionFeatures{}, nil, err
	}

	var warnings []string
	if len(known.Names) > 0 && !known.Contains(category) {
		msg := fmt.Sprintf("category %q is not in the %s catalog; the backend will decide", category, known.Source)
		warnings = append(warnings, msg)
		zap.L().Warn("unknown transaction category",
			zap.String("category", category),
			zap.String("catalog_source", string(known.Source)),
		)
	}

	return model.TransactionFeatures{
		Category:             category,
		Amount:               in.Amount,
		AgeAtTransaction:     float64(in.Age),
		DaysUntilCardExpires: float64(in.DaysUntilExpiry),
		LocDelta:             in.LocDelta,
		TransVolumeMavg:      in.TransVolumeMavg,
		TransVolumeMstd:      in.TransVolumeMstd,
		TransFreq:            float64(in.TransFreq),
		LocDeltaMavg:         in.LocDeltaMavg,
	}, warnings, nil
}

func checkRange(verr *resilience.ValidationError, field string, v, lo, hi float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		verr.Add(field, "must be a finite number")
		return
	}
	if v < lo || v > hi {
		verr.Add(field, "must be between %s and %s", formatBound(lo), formatBound(hi))
	}
}

func formatBound(v float64) string {
	return fmt.Sprintf("%g", v)
}
