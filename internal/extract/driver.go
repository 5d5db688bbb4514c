package extract

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lexiconlab/babelex/internal/metrics"
	"github.com/lexiconlab/babelex/internal/records"
)

// RowAppender is the shared output of a run. Rows passed to one Append call
// must be written contiguously. *records.Sink satisfies it.
type RowAppender interface {
	Append(rows ...records.Row) error
}

// Task turns one input item into zero or more output rows.
type Task[T any] func(ctx context.Context, item T) ([]records.Row, error)

// Summary describes a finished run.
type Summary struct {
	RunID    string        `json:"run_id"`
	Action   string        `json:"action"`
	Items    int64         `json:"items"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// Driver runs tasks on a bounded pool of workers.
type Driver struct {
	workers int
	log     *logrus.Logger
}

// NewDriver creates a driver with the given pool size; workers <= 0 means
// one worker per available CPU.
func NewDriver(workers int, log *logrus.Logger) *Driver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Driver{workers: workers, log: log}
}

// Workers returns the pool size.
func (d *Driver) Workers() int { return d.workers }

// Run applies task to every item on d's worker pool and appends the rows of
// each item to sink in a single call. The first task or sink error cancels
// the remaining work and is returned. Rows already appended stay in the sink.
func Run[T any](ctx context.Context, d *Driver, action string, items []T, sink RowAppender, task Task[T]) (Summary, error) {
	sum := Summary{RunID: uuid.NewString(), Action: action}
	start := time.Now()

	log := d.log.WithFields(logrus.Fields{
		"run_id":  sum.RunID,
		"action":  action,
		"items":   len(items),
		"workers": d.workers,
	})
	log.Info("extraction started")

	var processed, written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, item := range items {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rows, err := task(gctx, item)
			if err != nil {
				metrics.TaskFailures.WithLabelValues(action).Inc()
				return fmt.Errorf("%s: %w", action, err)
			}

			if len(rows) > 0 {
				if err := sink.Append(rows...); err != nil {
					return fmt.Errorf("%s: %w", action, err)
				}

				written.Add(int64(len(rows)))
				metrics.RowsWritten.WithLabelValues(action).Add(float64(len(rows)))
			}

			processed.Add(1)
			metrics.ItemsProcessed.WithLabelValues(action).Inc()

			log.WithFields(logrus.Fields{"item": i, "rows": len(rows)}).Debug("item extracted")

			return nil
		})
	}

	err := g.Wait()

	sum.Items = processed.Load()
	sum.Rows = written.Load()
	sum.Duration = time.Since(start)

	if err == nil && sum.Items < int64(len(items)) {
		err = fmt.Errorf("%s: run aborted after %d of %d items: %w", action, sum.Items, len(items), context.Cause(ctx))
	}

	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{"processed": sum.Items, "rows": sum.Rows}).Error("extraction failed")
		return sum, err
	}

	log.WithFields(logrus.Fields{
		"rows":     sum.Rows,
		"duration": sum.Duration.String(),
	}).Info("extraction finished")

	return sum, nil
}
