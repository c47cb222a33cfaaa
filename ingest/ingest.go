/*
   Loads reviewer,product,rating rows into a review graph.
*/
package ingest

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/pipeline"
	"github.com/Ahmed-Sermani/ria/pipeline/runners"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Graph is implemented by review graphs the loader can populate.
type Graph interface {
	Reviewer(name string) (*bipartite.Reviewer, bool)
	Product(name string) (*bipartite.Product, bool)
	NewReviewer(name string) (*bipartite.Reviewer, error)
	NewProduct(name string) (*bipartite.Product, error)
	AddReview(r *bipartite.Reviewer, p *bipartite.Product, rating float64) (*bipartite.Review, error)
}

// Config encapsulates the settings for creating a Loader.
type Config struct {
	// Graph receives the loaded reviews. Required.
	Graph Graph

	// Logger defaults to a logger that discards everything.
	Logger *logrus.Entry
}

// Stats summarizes a Load call.
type Stats struct {
	Rows     int
	Reviews  int
	Rejected int
}

// Loader implements a pipeline with the following stages:
//
//   - Parse a row into names and a rating.
//   - Register unseen reviewers and products and add the review.
//
// Both stages are FIFO so reviews are added in input order. A Loader must
// not be used concurrently with other writers of its graph.
type Loader struct {
	pipeline *pipeline.Pipeline
	logger   *logrus.Entry
}

// NewLoader returns a Loader populating cfg.Graph.
func NewLoader(cfg Config) (*Loader, error) {
	if cfg.Graph == nil {
		return nil, xerrors.New("loader config validation failed: graph not specified")
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = logrus.NewEntry(l)
	}

	return &Loader{
		pipeline: pipeline.New(
			runners.FIFO(newRowParser()),
			runners.FIFO(newGraphUpdater(cfg.Graph)),
		),
		logger: cfg.Logger,
	}, nil
}

// Load reads CSV rows of the form reviewer,product,rating from r. Lines
// starting with # are ignored. Bad rows do not stop the load: they are
// counted as rejected and reported together once r is consumed. Read
// failures and context cancellation abort the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Stats, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	sink := new(collectingSink)
	if err := l.pipeline.Process(ctx, &csvSource{r: cr}, sink); err != nil {
		return sink.stats, xerrors.Errorf("load reviews: %w", err)
	} else if err = ctx.Err(); err != nil {
		return sink.stats, err
	}

	l.logger.WithFields(logrus.Fields{
		"rows":     sink.stats.Rows,
		"reviews":  sink.stats.Reviews,
		"rejected": sink.stats.Rejected,
	}).Debug("loaded reviews")
	return sink.stats, sink.rowErrs
}
