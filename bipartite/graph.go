/*
   Implements the bipartite review graph model used to detect anomalous
   reviewers and to compute trustworthy product summaries.
*/
package bipartite

import (
	"context"
	"math"

	"github.com/Ahmed-Sermani/ria/bsp"
	"github.com/Ahmed-Sermani/ria/bsp/aggregators"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

/*
   The graph has two kinds of nodes, reviewers and products. Every review is
   an edge from a reviewer to a product labelled with a rating in [0, 1].

   Reviewers carry an anomalous score and products a summary. The two
   reinforce each other: a product's summary is the mean of its ratings
   weighted by how trustworthy the reviewers are, and a reviewer's
   anomalous score is how far its ratings are from the summaries, weighted
   by how credible the products are.

   Each call to Update runs one pass on top of the bsp package:

       superstep 0: reviewers send every rating, together with their
                    current weight, to the reviewed product.
       superstep 1: products compute their new summary and reply to each
                    reviewer with the deviation of its rating and the
                    product's credibility.
       superstep 2: reviewers compute their new anomalous score.

   New values are staged in the bsp vertices and only committed once the
   whole pass succeeded, so every value of pass N+1 is computed from the
   values of pass N regardless of the order vertices are processed in.
*/

// Graph is a bipartite review graph. It is meant to be owned and mutated by
// a single goroutine. Callers must invoke Close when they are done with it.
type Graph struct {
	id          uuid.UUID
	algorithm   Algorithm
	credibility Credibility
	logger      *logrus.Entry

	reviewers     []*Reviewer
	products      []*Product
	reviews       []*Review
	reviewerIndex map[string]*Reviewer
	productIndex  map[string]*Product

	bg              *bsp.Graph[*vertexState, *Review]
	executorFactory bsp.ExecutorFactory[*vertexState, *Review]

	// pass holds the read-only inputs of the pass being executed.
	pass   passState
	passes int
	closed bool
}

// NewGraph creates an empty review graph using the provided config.
func NewGraph(cfg Config) (*Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("review graph config validation failed: %w", err)
	}

	g := &Graph{
		id:              uuid.New(),
		algorithm:       cfg.Algorithm,
		reviewerIndex:   make(map[string]*Reviewer),
		productIndex:    make(map[string]*Product),
		executorFactory: bsp.NewExecutor[*vertexState, *Review],
	}
	g.logger = cfg.Logger.WithFields(logrus.Fields{
		"graph":     g.id.String(),
		"algorithm": cfg.Algorithm.Name(),
	})

	bg, err := bsp.NewGraph(bsp.GraphConfig[*vertexState, *Review]{
		ComputeWorkers: cfg.ComputeWorkers,
		ComputeFn:      g.compute,
	})
	if err != nil {
		return nil, err
	}
	g.bg = bg
	g.registerAggregators()
	g.credibility = cfg.Credibility(g)

	return g, nil
}

// Close releases the resources held by the graph. Update and Run fail with
// ErrClosed once the graph is closed.
func (g *Graph) Close() error {
	if g.closed {
		return ErrClosed
	}
	g.closed = true
	return g.bg.Close()
}

// ID returns the unique identity of the graph.
func (g *Graph) ID() uuid.UUID { return g.id }

// Algorithm returns the algorithm the graph was configured with.
func (g *Graph) Algorithm() Algorithm { return g.algorithm }

// Credibility returns the credibility policy the graph was configured with.
func (g *Graph) Credibility() Credibility { return g.credibility }

// NewReviewer registers a reviewer with an anomalous score of 0.
func (g *Graph) NewReviewer(name string) (*Reviewer, error) {
	return g.NewReviewerWithScore(name, 0)
}

// NewReviewerWithScore registers a reviewer with the given initial
// anomalous score.
func (g *Graph) NewReviewerWithScore(name string, anomalous float64) (*Reviewer, error) {
	if _, exists := g.reviewerIndex[name]; exists {
		return nil, xerrors.Errorf("new reviewer %q: %w", name, ErrDuplicateName)
	} else if !inUnitInterval(anomalous) {
		return nil, xerrors.Errorf("new reviewer %q with anomalous score %v: %w", name, anomalous, ErrInvalidRating)
	}

	r := &Reviewer{graphID: g.id, name: name, anomalous: anomalous}
	g.reviewers = append(g.reviewers, r)
	g.reviewerIndex[name] = r
	g.bg.AddVertex(reviewerVertexID(name), &vertexState{reviewer: r})
	return r, nil
}

// NewProduct registers a product.
func (g *Graph) NewProduct(name string) (*Product, error) {
	if _, exists := g.productIndex[name]; exists {
		return nil, xerrors.Errorf("new product %q: %w", name, ErrDuplicateName)
	}

	p := &Product{graphID: g.id, name: name}
	g.products = append(g.products, p)
	g.productIndex[name] = p
	g.bg.AddVertex(productVertexID(name), &vertexState{product: p})
	return p, nil
}

// AddReview records that r rated p. Reviews are never deduplicated: rating
// the same product twice creates two reviews. The graph is left untouched
// when an error is returned.
func (g *Graph) AddReview(r *Reviewer, p *Product, rating float64) (*Review, error) {
	if !g.ownsReviewer(r) {
		return nil, xerrors.Errorf("add review: reviewer %v: %w", r, ErrUnknownNode)
	} else if !g.ownsProduct(p) {
		return nil, xerrors.Errorf("add review: product %v: %w", p, ErrUnknownNode)
	} else if !inUnitInterval(rating) {
		return nil, xerrors.Errorf("add review from %q to %q with rating %v: %w", r.name, p.name, rating, ErrInvalidRating)
	}

	rv := &Review{seq: len(g.reviews), reviewer: r, product: p, rating: rating}
	if err := g.bg.AddEdge(reviewerVertexID(r.name), productVertexID(p.name), rv); err != nil {
		return nil, xerrors.Errorf("add review from %q to %q: %w", r.name, p.name, err)
	}
	g.reviews = append(g.reviews, rv)
	r.reviews = append(r.reviews, rv)
	p.reviews = append(p.reviews, rv)
	return rv, nil
}

// Reviewers returns every reviewer in registration order.
func (g *Graph) Reviewers() []*Reviewer { return append([]*Reviewer(nil), g.reviewers...) }

// Products returns every product in registration order.
func (g *Graph) Products() []*Product { return append([]*Product(nil), g.products...) }

// Reviews returns every review in the order they were added.
func (g *Graph) Reviews() []*Review { return append([]*Review(nil), g.reviews...) }

// NumReviews returns the number of reviews in the graph.
func (g *Graph) NumReviews() int { return len(g.reviews) }

// Reviewer looks up a reviewer by name.
func (g *Graph) Reviewer(name string) (*Reviewer, bool) {
	r, ok := g.reviewerIndex[name]
	return r, ok
}

// Product looks up a product by name.
func (g *Graph) Product(name string) (*Product, bool) {
	p, ok := g.productIndex[name]
	return p, ok
}

// RetrieveProducts returns the distinct products r reviewed, in the order
// of r's first review of each.
func (g *Graph) RetrieveProducts(r *Reviewer) ([]*Product, error) {
	if !g.ownsReviewer(r) {
		return nil, xerrors.Errorf("retrieve products of %v: %w", r, ErrUnknownNode)
	}

	var (
		products []*Product
		seen     = make(map[*Product]struct{}, len(r.reviews))
	)
	for _, rv := range r.reviews {
		if _, dup := seen[rv.product]; !dup {
			seen[rv.product] = struct{}{}
			products = append(products, rv.product)
		}
	}
	return products, nil
}

// RetrieveReviewers returns the distinct reviewers of p, in the order of
// their first review of p.
func (g *Graph) RetrieveReviewers(p *Product) ([]*Reviewer, error) {
	if !g.ownsProduct(p) {
		return nil, xerrors.Errorf("retrieve reviewers of %v: %w", p, ErrUnknownNode)
	}

	var (
		reviewers []*Reviewer
		seen      = make(map[*Reviewer]struct{}, len(p.reviews))
	)
	for _, rv := range p.reviews {
		if _, dup := seen[rv.reviewer]; !dup {
			seen[rv.reviewer] = struct{}{}
			reviewers = append(reviewers, rv.reviewer)
		}
	}
	return reviewers, nil
}

// RetrieveReview returns the review r posted for p. When r reviewed p more
// than once the latest review is returned.
func (g *Graph) RetrieveReview(r *Reviewer, p *Product) (*Review, error) {
	if !g.ownsReviewer(r) {
		return nil, xerrors.Errorf("retrieve review: reviewer %v: %w", r, ErrUnknownNode)
	} else if !g.ownsProduct(p) {
		return nil, xerrors.Errorf("retrieve review: product %v: %w", p, ErrUnknownNode)
	}

	for i := len(r.reviews) - 1; i >= 0; i-- {
		if rv := r.reviews[i]; rv.product == p {
			return rv, nil
		}
	}
	return nil, xerrors.Errorf("retrieve review from %q to %q: %w", r.name, p.name, ErrNoReview)
}

// Passes returns the number of update passes committed so far.
func (g *Graph) Passes() int { return g.passes }

// Update runs one pass of the configured algorithm and returns the largest
// absolute change of any anomalous score or summary. Update never checks
// for convergence; callers decide when the returned value is small enough.
// If an error is returned no score has been modified.
func (g *Graph) Update() (float64, error) {
	if g.closed {
		return 0, xerrors.Errorf("update pass %d: %w", g.passes+1, ErrClosed)
	}
	if maxPasses := g.algorithm.MaxPasses(); maxPasses > 0 && g.passes >= maxPasses {
		return 0, nil
	}

	if err := g.bg.DiscardPendingMessages(); err != nil {
		return 0, xerrors.Errorf("update pass %d: %w", g.passes+1, err)
	}
	ex := g.executorFactory(g.bg, bsp.ExecutorHooks[*vertexState, *Review]{
		PreStep:             g.preStep,
		PostStep:            g.postStep,
		PostStepKeepRunning: g.keepRunning,
	})
	if err := ex.RunSteps(context.Background(), numPassSteps); err != nil {
		return 0, xerrors.Errorf("update pass %d: %w", g.passes+1, err)
	}

	diff := g.commit()
	g.passes++
	fields := logrus.Fields{
		"pass":   g.passes,
		"diff":   diff,
		"sad":    g.bg.Aggregator(sadAggr).Delta(),
		"staged": g.bg.Aggregator(stagedAggr).Get(),
	}
	if low, high := g.bg.Aggregator(rawScoreMinAggr).Get().(float64), g.bg.Aggregator(rawScoreMaxAggr).Get().(float64); low <= high {
		fields["raw_score_min"], fields["raw_score_max"] = low, high
	}
	g.logger.WithFields(fields).Debug("committed update pass")
	return diff, nil
}

// commit installs the values staged by the pass that just completed and
// returns the largest absolute change. The SAD aggregator is never reset;
// Update reads the change of a single pass through its Delta.
func (g *Graph) commit() float64 {
	sad := g.bg.Aggregator(sadAggr)
	diff := g.bg.Aggregator(summaryDiffAggr).Delta().(float64)
	for _, p := range g.products {
		st := g.bg.Vertex(productVertexID(p.name)).Value()
		if !st.staged {
			continue
		}
		sad.Aggregate(math.Abs(st.next - p.Summary()))
		p.summary, p.summarized = st.next, true
	}
	for _, r := range g.reviewers {
		st := g.bg.Vertex(reviewerVertexID(r.name)).Value()
		if !st.staged {
			continue
		}
		delta := math.Abs(st.next - r.anomalous)
		sad.Aggregate(delta)
		diff = math.Max(diff, delta)
		r.anomalous = st.next
	}
	return diff
}

func (g *Graph) registerAggregators() {
	g.bg.RegisterAggregator(stagedAggr, new(aggregators.IntAggregator))
	g.bg.RegisterAggregator(summaryDiffAggr, new(aggregators.Float64MaxAggregator))
	g.bg.RegisterAggregator(sadAggr, new(aggregators.Float64Aggregator))
	g.bg.RegisterAggregator(rawScoreMinAggr, new(aggregators.Float64MinAggregator))
	g.bg.RegisterAggregator(rawScoreMaxAggr, new(aggregators.Float64MaxAggregator))
}

func (g *Graph) ownsReviewer(r *Reviewer) bool {
	return r != nil && r.graphID == g.id && g.reviewerIndex[r.name] == r
}

func (g *Graph) ownsProduct(p *Product) bool {
	return p != nil && p.graphID == g.id && g.productIndex[p.name] == p
}

// distinctReviewers counts the reviewers of p without building a slice.
func (g *Graph) distinctReviewers(p *Product) int {
	seen := make(map[*Reviewer]struct{}, len(p.reviews))
	for _, rv := range p.reviews {
		seen[rv.reviewer] = struct{}{}
	}
	return len(seen)
}

func inUnitInterval(v float64) bool { return v >= 0 && v <= 1 }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
