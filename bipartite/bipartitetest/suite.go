// Package bipartitetest contains a test suite that every algorithm
// configuration of the review graph must pass.
package bipartitetest

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/Ahmed-Sermani/ria/bipartite"
	gc "gopkg.in/check.v1"
)

// Rating describes one review to be added to a graph.
type Rating struct {
	Reviewer string
	Product  string
	Value    float64
}

// ToyRatings is a small graph with two reviewers and three products.
var ToyRatings = []Rating{
	{"reviewer-0", "product-0", 0.2},
	{"reviewer-0", "product-1", 0.9},
	{"reviewer-0", "product-2", 0.6},
	{"reviewer-1", "product-1", 0.1},
	{"reviewer-1", "product-2", 0.7},
}

// Populate adds ratings to g, registering reviewers and products on first
// use.
func Populate(c *gc.C, g *bipartite.Graph, ratings []Rating) {
	for _, rt := range ratings {
		r, ok := g.Reviewer(rt.Reviewer)
		if !ok {
			var err error
			r, err = g.NewReviewer(rt.Reviewer)
			c.Assert(err, gc.IsNil)
		}
		p, ok := g.Product(rt.Product)
		if !ok {
			var err error
			p, err = g.NewProduct(rt.Product)
			c.Assert(err, gc.IsNil)
		}
		_, err := g.AddReview(r, p, rt.Value)
		c.Assert(err, gc.IsNil)
	}
}

// RandomRatings generates a reproducible set of ratings.
func RandomRatings(seed int64, numReviewers, numProducts, numRatings int) []Rating {
	rnd := rand.New(rand.NewSource(seed))
	ratings := make([]Rating, numRatings)
	for i := range ratings {
		ratings[i] = Rating{
			Reviewer: fmt.Sprintf("reviewer-%d", rnd.Intn(numReviewers)),
			Product:  fmt.Sprintf("product-%d", rnd.Intn(numProducts)),
			Value:    float64(rnd.Intn(11)) / 10,
		}
	}
	return ratings
}

// SuiteBase defines a re-usable set of review graph tests that can be
// executed against any algorithm configuration.
type SuiteBase struct {
	cfg bipartite.Config
}

// SetConfig configures the test-suite to build graphs from cfg.
func (s *SuiteBase) SetConfig(cfg bipartite.Config) {
	s.cfg = cfg
}

// NewGraph returns an empty graph built from the suite config with the
// given number of compute workers. The graph is closed when the test ends.
func (s *SuiteBase) NewGraph(c *gc.C, workers int) *bipartite.Graph {
	cfg := s.cfg
	cfg.ComputeWorkers = workers
	g, err := bipartite.NewGraph(cfg)
	c.Assert(err, gc.IsNil)
	c.Assert(g, gc.NotNil)
	return g
}

func (s *SuiteBase) TestUpdateEmptyGraph(c *gc.C) {
	g := s.NewGraph(c, 1)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()

	diff, err := g.Update()
	c.Assert(err, gc.IsNil)
	c.Assert(diff, gc.Equals, 0.0)
}

func (s *SuiteBase) TestScoresStayInUnitInterval(c *gc.C) {
	g := s.NewGraph(c, 4)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, RandomRatings(42, 20, 10, 120))

	for pass := 0; pass < 25; pass++ {
		diff, err := g.Update()
		c.Assert(err, gc.IsNil)
		c.Assert(diff >= 0, gc.Equals, true)

		for _, r := range g.Reviewers() {
			a := r.AnomalousScore()
			c.Assert(a >= 0 && a <= 1, gc.Equals, true, gc.Commentf("pass %d: reviewer %s has score %v", pass, r, a))
		}
		for _, p := range g.Products() {
			sum := p.Summary()
			c.Assert(sum >= 0 && sum <= 1, gc.Equals, true, gc.Commentf("pass %d: product %s has summary %v", pass, p, sum))
		}
	}
}

func (s *SuiteBase) TestIdenticalGraphsProduceIdenticalScores(c *gc.C) {
	s.assertSameScores(c, 1, 1)
}

func (s *SuiteBase) TestScoresDoNotDependOnComputeWorkers(c *gc.C) {
	s.assertSameScores(c, 1, 8)
}

func (s *SuiteBase) assertSameScores(c *gc.C, workersA, workersB int) {
	ratings := RandomRatings(7, 30, 15, 200)
	g1 := s.NewGraph(c, workersA)
	defer func() { c.Assert(g1.Close(), gc.IsNil) }()
	g2 := s.NewGraph(c, workersB)
	defer func() { c.Assert(g2.Close(), gc.IsNil) }()
	Populate(c, g1, ratings)
	Populate(c, g2, ratings)

	for pass := 0; pass < 10; pass++ {
		d1, err := g1.Update()
		c.Assert(err, gc.IsNil)
		d2, err := g2.Update()
		c.Assert(err, gc.IsNil)
		c.Assert(d1, gc.Equals, d2, gc.Commentf("pass %d", pass))
	}

	r1, r2 := g1.Reviewers(), g2.Reviewers()
	c.Assert(r1, gc.HasLen, len(r2))
	for i := range r1 {
		c.Assert(r1[i].Name(), gc.Equals, r2[i].Name())
		c.Assert(r1[i].AnomalousScore(), gc.Equals, r2[i].AnomalousScore(), gc.Commentf("reviewer %s", r1[i]))
	}
	p1, p2 := g1.Products(), g2.Products()
	c.Assert(p1, gc.HasLen, len(p2))
	for i := range p1 {
		c.Assert(p1[i].Summary(), gc.Equals, p2[i].Summary(), gc.Commentf("product %s", p1[i]))
	}
}

func (s *SuiteBase) TestEqualWeightsAverageRatings(c *gc.C) {
	g := s.NewGraph(c, 1)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, []Rating{
		{"reviewer-0", "product-0", 0.2},
		{"reviewer-1", "product-0", 0.8},
	})

	_, err := g.Update()
	c.Assert(err, gc.IsNil)
	p, _ := g.Product("product-0")
	c.Assert(p.Summary(), AlmostEquals, 0.5, 1e-12)
}

func (s *SuiteBase) TestRepeatedReviewsCountSeparately(c *gc.C) {
	g := s.NewGraph(c, 2)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, []Rating{
		{"reviewer-a", "product-0", 1},
		{"reviewer-a", "product-0", 0},
		{"reviewer-b", "product-0", 0.9},
	})

	_, err := g.Update()
	c.Assert(err, gc.IsNil)
	p, _ := g.Product("product-0")
	reviewers, err := g.RetrieveReviewers(p)
	c.Assert(err, gc.IsNil)
	c.Assert(reviewers, gc.HasLen, 2)
	c.Assert(p.Summary(), AlmostEquals, 1.9/3, 1e-12)
}

func (s *SuiteBase) TestNodesWithoutReviewsKeepTheirValues(c *gc.C) {
	g := s.NewGraph(c, 2)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, ToyRatings)

	idle, err := g.NewReviewerWithScore("idle", 0.3)
	c.Assert(err, gc.IsNil)
	unrated, err := g.NewProduct("unrated")
	c.Assert(err, gc.IsNil)

	for pass := 0; pass < 5; pass++ {
		_, err = g.Update()
		c.Assert(err, gc.IsNil)
	}
	c.Assert(idle.AnomalousScore(), gc.Equals, 0.3)
	c.Assert(unrated.Summary(), gc.Equals, 0.0)
}

func (s *SuiteBase) TestConvergedScoresAreStable(c *gc.C) {
	g := s.NewGraph(c, 2)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, ToyRatings)

	res, err := g.Run(context.TODO(), bipartite.RunConfig{})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Converged, gc.Equals, true)
	c.Assert(res.Iterations > 0, gc.Equals, true)

	scores := make(map[string]float64)
	for _, r := range g.Reviewers() {
		scores[r.Name()] = r.AnomalousScore()
	}
	diff, err := g.Update()
	c.Assert(err, gc.IsNil)
	c.Assert(diff < bipartite.DefaultThreshold, gc.Equals, true, gc.Commentf("diff %v", diff))
	for _, r := range g.Reviewers() {
		c.Assert(r.AnomalousScore(), AlmostEquals, scores[r.Name()], bipartite.DefaultThreshold)
	}
}

func (s *SuiteBase) TestRunHonoursCancelledContext(c *gc.C) {
	g := s.NewGraph(c, 1)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	Populate(c, g, ToyRatings)

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	res, err := g.Run(ctx, bipartite.RunConfig{})
	c.Assert(err, gc.Equals, context.Canceled)
	c.Assert(res.Iterations, gc.Equals, 0)
	c.Assert(g.Passes(), gc.Equals, 0)
}
