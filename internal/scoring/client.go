package scoring

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fraud-cli/internal/metrics"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// Scored is a successful scoring round trip.
type Scored struct {
	Result    *model.ScoringResult
	Raw       json.RawMessage
	RequestID string
	Latency   time.Duration
}

// Client performs the /predict round trip. Each call sends exactly one
// request.
type Client struct {
	api     fraudapi.Client
	timeout time.Duration
}

// NewClient creates a scoring client with a default timeout budget.
func NewClient(api fraudapi.Client, timeout time.Duration) *Client {
	return &Client{api: api, timeout: timeout}
}

// Score sends features and returns the interpreted result. budget <= 0
// uses the client's default. Errors are *resilience.UnreachableError,
// *resilience.TimedOutError or *resilience.BackendError.
func (c *Client) Score(ctx context.Context, features model.TransactionFeatures, budget time.Duration) (*model.ScoringResult, error) {
	scored, err := c.Do(ctx, features, budget)
	if err != nil {
		return nil, err
	}
	return scored.Result, nil
}

// Do is Score that also returns the raw body and request metadata.
func (c *Client) Do(ctx context.Context, features model.TransactionFeatures, budget time.Duration) (*Scored, error) {
	if budget <= 0 {
		budget = c.timeout
	}
	log := zap.L().With(
		zap.String("component", "scoring.client"),
		zap.String("category", features.Category),
		zap.Duration("budget", budget),
	)

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Predict(ctx, features)
	if err != nil {
		err = resilience.ClassifyTransport(fraudapi.PathPredict, budget, err)
		metrics.ObserveRequest(fraudapi.PathPredict, resilience.StateOf(err), time.Since(start))
		log.Warn("scoring request failed", zap.String("kind", resilience.Kind(err)), zap.Error(err))
		return nil, err
	}

	log = log.With(zap.String("request_id", resp.RequestID), zap.Int("status", resp.StatusCode))

	if !resp.OK() {
		err := resilience.NewStatusError(resp.Endpoint, resp.StatusCode, resp.Body)
		metrics.ObserveRequest(resp.Endpoint, resilience.StateOf(err), resp.Latency)
		log.Warn("scoring backend returned error status", zap.String("body", string(resp.Body)))
		return nil, err
	}

	result, err := Interpret(resp.Body)
	metrics.ObserveRequest(resp.Endpoint, resilience.StateOf(err), resp.Latency)
	if err != nil {
		log.Warn("scoring response malformed", zap.Error(err))
		return nil, err
	}

	metrics.ObserveVerdict(result.Severity())
	log.Info("transaction scored",
		zap.String("transaction_id", result.TransactionID),
		zap.Float64("ensemble_probability", result.EnsembleProbability),
		zap.String("tier", string(result.Severity())),
		zap.Duration("latency", resp.Latency),
	)

	return &Scored{
		Result:    result,
		Raw:       json.RawMessage(resp.Body),
		RequestID: resp.RequestID,
		Latency:   resp.Latency,
	}, nil
}
