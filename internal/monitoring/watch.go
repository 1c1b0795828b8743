package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Watcher refreshes the monitoring snapshot on an interval. Every tick is
// an independent FetchSnapshot; nothing carries over between ticks.
type Watcher struct {
	aggregator *Aggregator
	interval   time.Duration
	budget     time.Duration
}

// NewWatcher creates a watcher. A non-positive interval defaults to one minute.
func NewWatcher(aggregator *Aggregator, interval, budget time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{aggregator: aggregator, interval: interval, budget: budget}
}

// Run fetches immediately, then once per interval, handing each snapshot to
// emit. It blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, emit func(*Snapshot)) {
	log := zap.L().With(zap.String("component", "monitoring.watcher"))
	log.Info("starting stats refresh", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		emit(w.aggregator.FetchSnapshot(ctx, w.budget))

		select {
		case <-ctx.Done():
			log.Info("stats refresh stopped")
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
		}
	}
}
