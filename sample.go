package plotexpr

import (
	"context"
	"math"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/plotexpr/internal/stack"
)

// minChunk is the fewest points a sampling goroutine evaluates.
const minChunk = 64

// Sample evaluates the expression at count evenly spaced points from start to
// end inclusive, in ascending order of x. The i-th point is at
// start + i*(end-start)/(count-1); a single point is at start.
//
// Sampling is all or nothing. If evaluation fails at any point, the result is
// a *PointError for the lowest such point and no points. If ctx is canceled
// first, the result is ctx.Err().
//
// count must be positive, start and end must be finite, and start must not be
// after end unless count is 1. Otherwise the result is a *RangeError.
func (p *Postfix) Sample(ctx context.Context, start, end float64, count int, opts ...SampleOption) ([]Point, error) {
	cfg := sampleConfig{workers: 1, logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt.sampleOption(&cfg)
	}
	if count < 1 || !finite(start) || !finite(end) || (count > 1 && start > end) {
		return nil, &RangeError{Start: start, End: end, Count: count}
	}
	var step float64
	if count > 1 {
		step = (end - start) / float64(count-1)
	}

	t := time.Now()
	pts := make([]Point, count)
	var err error
	workers := cfg.workers
	if n := (count + minChunk - 1) / minChunk; n < workers {
		workers = n
	}
	if workers <= 1 {
		err = p.sampleChunk(ctx, pts, 0, start, step)
	} else {
		err = p.sampleParallel(ctx, pts, start, step, workers)
	}
	took := time.Since(t)
	cfg.metrics.sampled(count, took, err)
	if err != nil {
		level.Debug(cfg.logger).Log("msg", "sampling failed", "expr", p, "start", start, "end", end, "points", count, "err", err)
		return nil, err
	}
	level.Debug(cfg.logger).Log("msg", "sampled range", "expr", p, "start", start, "end", end, "points", count, "workers", workers, "duration", took)
	return pts, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sampleChunk fills pts, whose first element is point number off, and stops at
// the first failure.
func (p *Postfix) sampleChunk(ctx context.Context, pts []Point, off int, start, step float64) error {
	s := stack.New[float64](len(p.toks)/2 + 1)
	for i := range pts {
		if i%minChunk == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		k := off + i
		x := start + float64(k)*step
		y, err := p.eval(s, x)
		if err != nil {
			return &PointError{Index: k, X: x, Err: err}
		}
		pts[i] = Point{X: x, Y: y}
	}
	return nil
}

func (p *Postfix) sampleParallel(ctx context.Context, pts []Point, start, step float64, workers int) error {
	size := len(pts) / (workers * 4)
	if size < minChunk {
		size = minChunk
	}
	nchunks := (len(pts) + size - 1) / size
	errs := make([]error, nchunks)
	// failed is the lowest chunk that has failed. Chunks after it are skipped
	// because their errors could never be reported.
	failed := atomic.NewInt64(math.MaxInt64)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < nchunks; c++ {
		g.Go(func() error {
			if int64(c) > failed.Load() {
				return nil
			}
			lo, hi := c*size, (c+1)*size
			if hi > len(pts) {
				hi = len(pts)
			}
			err := p.sampleChunk(gctx, pts[lo:hi], lo, start, step)
			if err == nil {
				return nil
			}
			if gctx.Err() != nil {
				return gctx.Err()
			}
			errs[c] = err
			for {
				old := failed.Load()
				if int64(c) >= old || failed.CompareAndSwap(old, int64(c)) {
					return nil
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// SampleOption is an option for Sample.
type SampleOption interface {
	sampleOption(*sampleConfig)
}

type sampleConfig struct {
	workers int
	logger  log.Logger
	metrics *Metrics
}

type (
	workersopt int
	loggeropt  struct{ l log.Logger }
	metricsopt struct{ m *Metrics }
)

func (o workersopt) sampleOption(c *sampleConfig) {
	c.workers = int(o)
	if c.workers < 1 {
		c.workers = 1
	}
}

func (o loggeropt) sampleOption(c *sampleConfig) {
	c.logger = o.l
}

func (o metricsopt) sampleOption(c *sampleConfig) {
	c.metrics = o.m
}

// SampleWorkers sets the most goroutines Sample uses at once. The default is 1,
// which evaluates on the calling goroutine. Small ranges use fewer goroutines
// than requested. The result does not depend on the number of workers.
func SampleWorkers(n int) SampleOption {
	return workersopt(n)
}

// SampleLogger sets a logger for debug messages about sampling.
func SampleLogger(l log.Logger) SampleOption {
	return loggeropt{l}
}

// SampleMetrics records samplings in m.
func SampleMetrics(m *Metrics) SampleOption {
	return metricsopt{m}
}
