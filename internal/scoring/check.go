package scoring

import (
	"context"

	"github.com/sells-group/fraud-cli/internal/config"
	"github.com/sells-group/fraud-cli/internal/model"
	"github.com/sells-group/fraud-cli/pkg/fraudapi"
)

// Checker wires category resolution, request building and scoring into the
// single flow behind a "check transaction" action.
type Checker struct {
	Categories *CategoryProvider
	Builder    *RequestBuilder
	Client     *Client
}

// NewChecker builds every scoring component from cfg around one API client.
func NewChecker(api fraudapi.Client, cfg *config.Config) *Checker {
	return &Checker{
		Categories: NewCategoryProvider(api, cfg.API.CategoryTimeout()),
		Builder:    NewRequestBuilder(cfg.Form),
		Client:     NewClient(api, cfg.API.ScoreTimeout()),
	}
}

// Check is the outcome of one transaction check.
type Check struct {
	Features model.TransactionFeatures
	Warnings []string
	Scored   *Scored
}

// Check validates in against the most recently resolved categories and, when
// valid, scores it. Validation errors are returned before any request.
func (c *Checker) Check(ctx context.Context, in model.FormInput, known model.Categories) (*Check, error) {
	features, warnings, err := c.Builder.Build(in, known)
	if err != nil {
		return nil, err
	}

	scored, err := c.Client.Do(ctx, features, 0)
	if err != nil {
		return &Check{Features: features, Warnings: warnings}, err
	}

	return &Check{Features: features, Warnings: warnings, Scored: scored}, nil
}
