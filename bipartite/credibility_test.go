package bipartite_test

import (
	"math"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/bipartite/bipartitetest"
	"github.com/Ahmed-Sermani/ria/bipartite/mocks"
	"github.com/golang/mock/gomock"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(CredibilityTestSuite))

type CredibilityTestSuite struct{}

func (s *CredibilityTestSuite) newGraph(c *gc.C, factory bipartite.CredibilityFactory) *bipartite.Graph {
	g, err := bipartite.NewGraph(bipartite.Config{Algorithm: bipartite.MRA{}, Credibility: factory})
	c.Assert(err, gc.IsNil)
	return g
}

func (s *CredibilityTestSuite) TestUniform(c *gc.C) {
	g := s.newGraph(c, bipartite.NewUniformCredibility)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)

	for _, p := range g.Products() {
		c.Assert(g.Credibility().Credibility(p), gc.Equals, 1.0)
	}
}

func (s *CredibilityTestSuite) TestWeighted(c *gc.C) {
	g := s.newGraph(c, nil)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	c.Assert(g.Credibility(), gc.FitsTypeOf, bipartite.WeightedCredibility{})

	bipartitetest.Populate(c, g, []bipartitetest.Rating{
		{Reviewer: "reviewer-0", Product: "product-0", Value: 0.3},
		{Reviewer: "reviewer-0", Product: "product-1", Value: 0.1},
		{Reviewer: "reviewer-1", Product: "product-1", Value: 0.9},
		{Reviewer: "reviewer-2", Product: "product-1", Value: 0.5},
	})
	unrated, err := g.NewProduct("unrated")
	c.Assert(err, gc.IsNil)
	p0, _ := g.Product("product-0")
	p1, _ := g.Product("product-1")

	cred := g.Credibility()
	c.Assert(cred.Credibility(unrated), gc.Equals, 0.0)
	c.Assert(cred.Credibility(p0), gc.Equals, 0.5)
	// Unbiased variance of {0.1, 0.9, 0.5} is 0.16.
	c.Assert(cred.Credibility(p1), bipartitetest.AlmostEquals, math.Log(3)/1.16, 1e-12)
}

func (s *CredibilityTestSuite) TestWeightedUsesLatestRatingOfEachReviewer(c *gc.C) {
	g := s.newGraph(c, bipartite.NewWeightedCredibility)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, []bipartitetest.Rating{
		{Reviewer: "reviewer-0", Product: "product-0", Value: 0.0},
		{Reviewer: "reviewer-1", Product: "product-0", Value: 0.2},
		{Reviewer: "reviewer-0", Product: "product-0", Value: 0.2},
	})
	p0, _ := g.Product("product-0")

	// Two reviewers that agree: variance 0.
	c.Assert(g.Credibility().Credibility(p0), bipartitetest.AlmostEquals, math.Log(2), 1e-12)
}

func (s *CredibilityTestSuite) TestDegree(c *gc.C) {
	g := s.newGraph(c, bipartite.NewDegreeCredibility)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)
	p0, _ := g.Product("product-0")
	p1, _ := g.Product("product-1")

	cred := g.Credibility()
	c.Assert(cred.Credibility(p0), gc.Equals, 0.5)
	c.Assert(cred.Credibility(p1), gc.Equals, 1.0)

	// Adding a review must refresh the most reviewed product.
	bipartitetest.Populate(c, g, []bipartitetest.Rating{{Reviewer: "reviewer-2", Product: "product-1", Value: 0.5}})
	c.Assert(cred.Credibility(p0), bipartitetest.AlmostEquals, 1.0/3, 1e-12)
	c.Assert(cred.Credibility(p1), gc.Equals, 1.0)

	unrated, err := g.NewProduct("unrated")
	c.Assert(err, gc.IsNil)
	c.Assert(cred.Credibility(unrated), gc.Equals, 0.0)
}

func (s *CredibilityTestSuite) TestGraphBasedHelpers(c *gc.C) {
	g := s.newGraph(c, nil)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)
	r1, _ := g.Reviewer("reviewer-1")
	p0, _ := g.Product("product-0")
	p2, _ := g.Product("product-2")

	gb := bipartite.NewGraphBased(g)
	c.Assert(gb.Graph(), gc.Equals, g)

	reviewers, err := gb.Reviewers(p2)
	c.Assert(err, gc.IsNil)
	c.Assert(reviewers, gc.HasLen, 2)

	score, err := gb.ReviewScore(r1, p2)
	c.Assert(err, gc.IsNil)
	c.Assert(score, gc.Equals, 0.7)

	_, err = gb.ReviewScore(r1, p0)
	c.Assert(xerrors.Is(err, bipartite.ErrNoReview), gc.Equals, true)
}

func (s *CredibilityTestSuite) TestCredibilityEvaluatedOncePerProductAndPass(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	mockCred := mocks.NewMockCredibility(ctrl)

	g := s.newGraph(c, func(*bipartite.Graph) bipartite.Credibility { return mockCred })
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)

	for _, p := range g.Products() {
		mockCred.EXPECT().Credibility(p).Return(1.0).Times(2)
	}
	for i := 0; i < 2; i++ {
		_, err := g.Update()
		c.Assert(err, gc.IsNil)
	}
}

func (s *CredibilityTestSuite) TestNonFiniteCredibilityAbortsPass(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	mockCred := mocks.NewMockCredibility(ctrl)

	g := s.newGraph(c, func(*bipartite.Graph) bipartite.Credibility { return mockCred })
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)
	p1, _ := g.Product("product-1")
	p0, _ := g.Product("product-0")

	mockCred.EXPECT().Credibility(p0).Return(1.0)
	mockCred.EXPECT().Credibility(p1).Return(math.NaN())

	_, err := g.Update()
	c.Assert(xerrors.Is(err, bipartite.ErrNumericFault), gc.Equals, true)
	c.Assert(g.Passes(), gc.Equals, 0)
	for _, r := range g.Reviewers() {
		c.Assert(r.AnomalousScore(), gc.Equals, 0.0)
	}
	c.Assert(p1.Summary(), bipartitetest.AlmostEquals, 0.5, 1e-12)

	// A later pass must not see leftovers of the failed one.
	mockCred.EXPECT().Credibility(gomock.Any()).Return(1.0).Times(3)
	diff, err := g.Update()
	c.Assert(err, gc.IsNil)
	c.Assert(diff, bipartitetest.AlmostEquals, 0.225, 1e-12)
	c.Assert(g.Passes(), gc.Equals, 1)
}
