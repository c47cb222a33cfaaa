package bipartite

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	DefaultMaxIterations = 10000
	DefaultThreshold     = 1e-5
)

// RunConfig controls the update loop executed by Graph.Run.
type RunConfig struct {
	// MaxIterations caps the number of update passes. Defaults to
	// DefaultMaxIterations.
	MaxIterations int

	// Threshold is the diff below which the scores are considered stable.
	// Zero selects DefaultThreshold, it never means "stop at a diff of 0".
	// Use math.SmallestNonzeroFloat64 to iterate until a pass changes
	// nothing at all.
	Threshold float64

	// Clock is used to measure how long the run took. Defaults to the wall
	// clock.
	Clock clock.Clock
}

func (cfg *RunConfig) validate() error {
	if cfg.MaxIterations < 0 {
		return xerrors.Errorf("max iterations must not be negative: %w", ErrInvalidConfig)
	} else if cfg.Threshold < 0 {
		return xerrors.Errorf("threshold must not be negative: %w", ErrInvalidConfig)
	}

	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	return nil
}

// RunResult describes the outcome of Graph.Run.
type RunResult struct {
	Iterations int
	Diff       float64
	Converged  bool
	Elapsed    time.Duration
}

// Run calls Update until the diff it returns drops below the threshold or
// the iteration budget is spent. Not converging is reported through
// RunResult.Converged and is not an error. The context is checked between
// passes; a pass that started always completes.
func (g *Graph) Run(ctx context.Context, cfg RunConfig) (res RunResult, err error) {
	if err = cfg.validate(); err != nil {
		return res, xerrors.Errorf("run config validation failed: %w", err)
	}

	start := cfg.Clock.Now()
	defer func() { res.Elapsed = cfg.Clock.Now().Sub(start) }()

	for res.Iterations < cfg.MaxIterations {
		if err = ctx.Err(); err != nil {
			return res, err
		}

		var diff float64
		if diff, err = g.Update(); err != nil {
			return res, err
		}
		res.Iterations++
		res.Diff = diff
		if diff < cfg.Threshold {
			res.Converged = true
			break
		}
	}

	g.logger.WithFields(logrus.Fields{
		"iterations": res.Iterations,
		"diff":       res.Diff,
		"converged":  res.Converged,
	}).Info("review graph run finished")
	return res, nil
}
