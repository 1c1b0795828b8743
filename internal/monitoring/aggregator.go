package monitoring

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/fraud-cli/internal/metrics"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// FetchStatus is the terminal state of one monitoring read.
type FetchStatus struct {
	State   model.FetchState `json:"state" yaml:"state"`
	Message string           `json:"message,omitempty" yaml:"message,omitempty"`
	Latency time.Duration    `json:"latency_ns" yaml:"latency_ns"`
	Err     error            `json:"-" yaml:"-"`
}

// Snapshot combines both monitoring reads. Either half may be nil; its
// status says why.
type Snapshot struct {
	APIURL           string                   `json:"api_url" yaml:"api_url"`
	ModelInfo        *model.ModelInfoSnapshot `json:"model_info,omitempty" yaml:"model_info,omitempty"`
	ModelInfoStatus  FetchStatus              `json:"model_info_status" yaml:"model_info_status"`
	Monitoring       *model.MonitoringSummary `json:"monitoring,omitempty" yaml:"monitoring,omitempty"`
	MonitoringStatus FetchStatus              `json:"monitoring_status" yaml:"monitoring_status"`
	CollectedAt      time.Time                `json:"collected_at" yaml:"collected_at"`
}

// WakingUp reports whether any read timed out, which on a free-tier host
// means the backend is still booting.
func (s *Snapshot) WakingUp() bool {
	return s.ModelInfoStatus.State == model.FetchTimedOut || s.MonitoringStatus.State == model.FetchTimedOut
}

// Aggregator fetches model metadata and the prediction-log summary.
type Aggregator struct {
	api     fraudapi.Client
	timeout time.Duration
}

// NewAggregator creates an aggregator with a default per-read budget.
func NewAggregator(api fraudapi.Client, timeout time.Duration) *Aggregator {
	return &Aggregator{api: api, timeout: timeout}
}

// FetchSnapshot runs both reads concurrently and waits for both. A failed
// read never hides the other's data. budget <= 0 uses the default.
func (a *Aggregator) FetchSnapshot(ctx context.Context, budget time.Duration) *Snapshot {
	if budget <= 0 {
		budget = a.timeout
	}

	snap := &Snapshot{
		APIURL:           a.api.BaseURL(),
		ModelInfoStatus:  FetchStatus{State: model.FetchNotStarted},
		MonitoringStatus: FetchStatus{State: model.FetchNotStarted},
	}

	// Plain Group: one read failing must not cancel the other. Each
	// goroutine writes only its own half of snap.
	var g errgroup.Group
	g.Go(func() error {
		a.read(ctx, budget, fraudapi.PathModelInfo, &snap.ModelInfoStatus, a.api.ModelInfo, func(body []byte) (err error) {
			snap.ModelInfo, err = decodeModelInfo(body)
			return err
		})
		return nil
	})
	g.Go(func() error {
		a.read(ctx, budget, fraudapi.PathLogSummary, &snap.MonitoringStatus, a.api.LogSummary, func(body []byte) (err error) {
			snap.Monitoring, err = decodeLogSummary(body)
			return err
		})
		return nil
	})
	_ = g.Wait()

	snap.CollectedAt = time.Now().UTC()

	zap.L().Info("monitoring snapshot collected",
		zap.String("component", "monitoring.aggregator"),
		zap.String("model_info", string(snap.ModelInfoStatus.State)),
		zap.String("log_summary", string(snap.MonitoringStatus.State)),
	)
	return snap
}

// read drives one fetch from InFlight to a terminal state.
func (a *Aggregator) read(
	ctx context.Context,
	budget time.Duration,
	endpoint string,
	status *FetchStatus,
	call func(context.Context) (*fraudapi.Response, error),
	decode func([]byte) error,
) {
	status.State = model.FetchInFlight

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	resp, err := call(ctx)
	switch {
	case err != nil:
		err = resilience.ClassifyTransport(endpoint, budget, err)
	case !resp.OK():
		err = resilience.NewStatusError(endpoint, resp.StatusCode, resp.Body)
	default:
		if decErr := decode(resp.Body); decErr != nil {
			err = resilience.NewMalformedError(endpoint, resp.Body, decErr.Error())
		}
	}
	elapsed := time.Since(start)

	*status = FetchStatus{State: resilience.StateOf(err), Latency: elapsed, Err: err}
	metrics.ObserveRequest(endpoint, status.State, elapsed)
	if err != nil {
		status.Message = resilience.Remediation(err)
		zap.L().Warn("monitoring read failed",
			zap.String("component", "monitoring.aggregator"),
			zap.String("endpoint", endpoint),
			zap.String("state", string(status.State)),
			zap.Error(err),
		)
	}
}

type modelInfoWire struct {
	CategoryClasses    []string                   `json:"category_classes"`
	Metrics            map[string]json.RawMessage `json:"metrics"`
	TrainingSamples    *int                       `json:"training_samples"`
	TestSamples        *int                       `json:"test_samples"`
	FeatureColumns     []string                   `json:"feature_columns"`
	CategoricalColumns []string                   `json:"categorical_columns"`
	NumericColumns     []string                   `json:"numeric_columns"`
}

func decodeModelInfo(body []byte) (*model.ModelInfoSnapshot, error) {
	var w modelInfoWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, err
	}

	info := &model.ModelInfoSnapshot{
		Metrics:            make(map[string]model.ModelMetrics, len(w.Metrics)),
		TrainingSamples:    w.TrainingSamples,
		TestSamples:        w.TestSamples,
		FeatureColumns:     w.FeatureColumns,
		CategoricalColumns: w.CategoricalColumns,
		NumericColumns:     w.NumericColumns,
		CategoryClasses:    w.CategoryClasses,
	}
	for name, raw := range w.Metrics {
		m, ok := decodeMetricsRow(raw)
		if !ok {
			zap.L().Warn("skipping metrics row with unexpected shape",
				zap.String("component", "monitoring.aggregator"),
				zap.String("model", name),
			)
			continue
		}
		info.Metrics[name] = m
	}
	return info, nil
}

// decodeMetricsRow accepts the five-float row or the keyed object form.
func decodeMetricsRow(raw json.RawMessage) (model.ModelMetrics, bool) {
	var values []float64
	if err := json.Unmarshal(raw, &values); err == nil {
		return model.MetricsFromValues(values)
	}
	var keyed map[string]float64
	if err := json.Unmarshal(raw, &keyed); err != nil || len(keyed) == 0 {
		return model.ModelMetrics{}, false
	}
	return model.ModelMetrics{
		Accuracy:  keyed["accuracy"],
		F1:        keyed["f1"],
		Precision: keyed["precision"],
		Recall:    keyed["recall"],
		ROCAUC:    keyed["roc_auc"],
	}, true
}

func decodeLogSummary(body []byte) (*model.MonitoringSummary, error) {
	var s model.MonitoringSummary
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
