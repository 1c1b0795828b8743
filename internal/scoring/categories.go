package scoring

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/fraud-cli/internal/config"
	"github.com/sells-group/fraud-cli/internal/metrics"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/internal/resilience"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// FallbackCategories is served whenever the live catalog is unavailable.
// Spellings match the training data.
var FallbackCategories = []string{
	"Grocery",
	"Electronics",
	"Clothing",
	"Restaurant/Cafeteria",
	"Cash Withdrawal",
	"Health/Beauty",
	"Domestic Transport",
	"Sports/Outdoors",
	"Holliday/Travel",
	"Jewelery",
}

// CategoryProvider resolves the transaction categories offered to the user.
type CategoryProvider struct {
	api     fraudapi.Client
	timeout time.Duration
}

// NewCategoryProvider creates a provider whose lookup is capped at timeout
// (and never more than config.MaxCategoryTimeout).
func NewCategoryProvider(api fraudapi.Client, timeout time.Duration) *CategoryProvider {
	if timeout <= 0 || timeout > config.MaxCategoryTimeout {
		timeout = config.MaxCategoryTimeout
	}
	return &CategoryProvider{api: api, timeout: timeout}
}

// Resolve returns the live catalog sorted, or the sorted fallback list when
// the lookup fails in any way. It never returns an error.
func (p *CategoryProvider) Resolve(ctx context.Context) model.Categories {
	log := zap.L().With(zap.String("component", "scoring.categories"))

	names, err := p.fetch(ctx)
	if err != nil {
		metrics.CategoryFallbackTotal.Inc()
		log.Warn("category catalog unavailable, using fallback list",
			zap.String("kind", resilience.Kind(err)),
			zap.Error(err),
		)
		return fallback()
	}

	log.Debug("resolved live category catalog", zap.Int("categories", len(names)))
	return model.Categories{Names: names, Source: model.CategorySourceLive}
}

func (p *CategoryProvider) fetch(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.api.ModelInfo(ctx)
	if err != nil {
		err = resilience.ClassifyTransport(fraudapi.PathModelInfo, p.timeout, err)
		metrics.ObserveRequest(fraudapi.PathModelInfo, resilience.StateOf(err), time.Since(start))
		return nil, err
	}
	if !resp.OK() {
		err := resilience.NewStatusError(resp.Endpoint, resp.StatusCode, resp.Body)
		metrics.ObserveRequest(resp.Endpoint, resilience.StateOf(err), resp.Latency)
		return nil, err
	}

	var body struct {
		CategoryClasses []string `json:"category_classes"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		mal := resilience.NewMalformedError(resp.Endpoint, resp.Body, "decode category_classes")
		metrics.ObserveRequest(resp.Endpoint, resilience.StateOf(mal), resp.Latency)
		return nil, mal
	}
	metrics.ObserveRequest(resp.Endpoint, resilience.StateOf(nil), resp.Latency)

	names := dedupe(body.CategoryClasses)
	if len(names) == 0 {
		return nil, resilience.NewMalformedError(resp.Endpoint, resp.Body, "empty category_classes")
	}
	return names, nil
}

func fallback() model.Categories {
	names := append([]string(nil), FallbackCategories...)
	sort.Strings(names)
	return model.Categories{Names: names, Source: model.CategorySourceFallback}
}

// dedupe drops blanks and duplicates and sorts the result.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
