package sim

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravpaint/internal/level"
)

// Ensemble plays several levels concurrently with the same run config. Each
// run gets its own metrics from the factory.
type Ensemble struct {
	levels  []*level.Level
	logger  *log.Logger
	metrics func() []Metric
}

func NewEnsemble(levels []*level.Level, logger *log.Logger, metrics func() []Metric) *Ensemble {
	return &Ensemble{levels: levels, logger: logger, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.levels))
	errs := make([]error, len(e.levels))

	var wg sync.WaitGroup
	for i, l := range e.levels {
		wg.Add(1)
		go func(idx int, l *level.Level) {
			defer wg.Done()

			sim := New(l, e.logger)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i, l)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
