package bipartite

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/Ahmed-Sermani/ria/bipartite Credibility

// Credibility is implemented by policies that weigh products when a
// reviewer's deviations from product summaries are averaged into its
// anomalous score. A graph evaluates the credibility of every product once
// per update pass, before any reviewer is scored.
type Credibility interface {
	Credibility(p *Product) float64
}

// CredibilityFactory builds the Credibility used by a graph. It is invoked
// once, when the graph is created.
type CredibilityFactory func(g *Graph) Credibility

// UniformCredibility assigns 1 to every product.
type UniformCredibility struct{}

// NewUniformCredibility is a CredibilityFactory for UniformCredibility.
func NewUniformCredibility(*Graph) Credibility { return UniformCredibility{} }

func (UniformCredibility) Credibility(*Product) float64 { return 1 }

// GraphBased provides the graph traversal helpers credibility policies
// need to look at the reviews a product received.
type GraphBased struct {
	g *Graph
}

func NewGraphBased(g *Graph) GraphBased { return GraphBased{g: g} }

func (c GraphBased) Graph() *Graph { return c.g }

// Reviewers returns the reviewers contributing to p's summary.
func (c GraphBased) Reviewers(p *Product) ([]*Reviewer, error) {
	return c.g.RetrieveReviewers(p)
}

// ReviewScore returns the rating r gave p.
func (c GraphBased) ReviewScore(r *Reviewer, p *Product) (float64, error) {
	rv, err := c.g.RetrieveReview(r, p)
	if err != nil {
		return 0, err
	}
	return rv.Rating(), nil
}

// WeightedCredibility trusts products whose reviewers agree with each
// other. With N reviewers and an unbiased rating variance s2 the
// credibility is
//
//	0.5                 if N == 1
//	log(N) / (s2 + 1)   otherwise
//
// Products nobody reviewed get 0.
type WeightedCredibility struct {
	GraphBased
}

// NewWeightedCredibility is a CredibilityFactory for WeightedCredibility.
func NewWeightedCredibility(g *Graph) Credibility {
	return WeightedCredibility{GraphBased: NewGraphBased(g)}
}

func (c WeightedCredibility) Credibility(p *Product) float64 {
	reviewers, err := c.Reviewers(p)
	if err != nil {
		return 0
	}

	switch len(reviewers) {
	case 0:
		return 0
	case 1:
		return 0.5
	}

	scores := make([]float64, 0, len(reviewers))
	for _, r := range reviewers {
		score, err := c.ReviewScore(r, p)
		if err != nil {
			return 0
		}
		scores = append(scores, score)
	}
	return math.Log(float64(len(scores))) / (stat.Variance(scores, nil) + 1)
}

// DegreeCredibility weighs a product by how many distinct reviewers it has
// relative to the most reviewed product of the graph.
type DegreeCredibility struct {
	GraphBased

	// maxDegree is cached for the number of reviews it was computed at.
	seenReviews int
	maxDegree   int
}

// NewDegreeCredibility is a CredibilityFactory for DegreeCredibility.
func NewDegreeCredibility(g *Graph) Credibility {
	return &DegreeCredibility{GraphBased: NewGraphBased(g), seenReviews: -1}
}

func (c *DegreeCredibility) Credibility(p *Product) float64 {
	reviewers, err := c.Reviewers(p)
	if err != nil || len(reviewers) == 0 {
		return 0
	}

	if n := c.g.NumReviews(); n != c.seenReviews {
		c.maxDegree = 0
		for _, other := range c.g.products {
			if d := c.g.distinctReviewers(other); d > c.maxDegree {
				c.maxDegree = d
			}
		}
		c.seenReviews = n
	}
	return float64(len(reviewers)) / float64(c.maxDegree)
}
