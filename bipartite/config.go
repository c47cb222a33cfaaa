package bipartite

import (
	"io"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Config encapsulates the settings for creating a review graph.
type Config struct {
	// Algorithm computes the anomalous scores in each update pass.
	// Required.
	Algorithm Algorithm

	// Credibility builds the product credibility policy. Defaults to
	// NewWeightedCredibility.
	Credibility CredibilityFactory

	// ComputeWorkers is the number of workers used within one superstep of
	// an update pass. Results do not depend on it. Defaults to 1.
	ComputeWorkers int

	// Logger receives a debug entry for every committed pass. Defaults to a
	// logger that discards everything.
	Logger *logrus.Entry
}

func (cfg *Config) validate() error {
	var err error
	if cfg.Algorithm == nil {
		err = multierror.Append(err, xerrors.Errorf("algorithm not specified: %w", ErrInvalidConfig))
	} else if alpha := cfg.Algorithm.Alpha(); math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		err = multierror.Append(err, xerrors.Errorf("alpha must be a finite number, got %v: %w", alpha, ErrInvalidConfig))
	}

	if cfg.Credibility == nil {
		cfg.Credibility = NewWeightedCredibility
	}
	if cfg.ComputeWorkers <= 0 {
		cfg.ComputeWorkers = 1
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}
	return err
}
