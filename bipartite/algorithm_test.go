package bipartite_test

import (
	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/bipartite/bipartitetest"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(AlgorithmTestSuite))

type AlgorithmTestSuite struct{}

func (s *AlgorithmTestSuite) TestNames(c *gc.C) {
	cases := []struct {
		algo      bipartite.Algorithm
		name      string
		alpha     float64
		maxPasses int
	}{
		{bipartite.MRA{}, "mra", 1, 0},
		{bipartite.NewRIA(2.5), "ria", 2.5, 0},
		{bipartite.One{}, "one", 1, 1},
		{bipartite.OneSum{}, "onesum", 1, 0},
	}
	for _, tc := range cases {
		c.Assert(tc.algo.Name(), gc.Equals, tc.name)
		c.Assert(tc.algo.Alpha(), gc.Equals, tc.alpha)
		c.Assert(tc.algo.MaxPasses(), gc.Equals, tc.maxPasses)
	}
}

func (s *AlgorithmTestSuite) TestWeightedDeviation(c *gc.C) {
	devs := []bipartite.Deviation{
		{Value: 0.4, Credibility: 3},
		{Value: 0.1, Credibility: 1},
	}
	c.Assert(bipartite.MRA{}.AnomalousScore(devs), bipartitetest.AlmostEquals, 0.325, 1e-12)
	c.Assert(bipartite.NewRIA(3).AnomalousScore(devs), bipartitetest.AlmostEquals, 0.325, 1e-12)

	// Without any credible product every deviation counts the same.
	devs[0].Credibility, devs[1].Credibility = 0, 0
	c.Assert(bipartite.One{}.AnomalousScore(devs), bipartitetest.AlmostEquals, 0.25, 1e-12)
}

func (s *AlgorithmTestSuite) TestOneSumScore(c *gc.C) {
	devs := []bipartite.Deviation{
		{Value: 0.4, Credibility: 1},
		{Value: 0.2, Credibility: 0.5},
	}
	// (0.4 - 0.5) + (0.1 - 0.5)
	c.Assert(bipartite.OneSum{}.AnomalousScore(devs), bipartitetest.AlmostEquals, -0.5, 1e-12)
}

func (s *AlgorithmTestSuite) TestOneSumNormalize(c *gc.C) {
	scores := []float64{-1, 0, 3}
	bipartite.OneSum{}.Normalize(scores)
	c.Assert(scores, gc.DeepEquals, []float64{0, 0.25, 1})

	same := []float64{-0.5, -0.5}
	bipartite.OneSum{}.Normalize(same)
	c.Assert(same, gc.DeepEquals, []float64{0, 0})

	same = []float64{0.3}
	bipartite.OneSum{}.Normalize(same)
	c.Assert(same, gc.DeepEquals, []float64{0.3})

	bipartite.OneSum{}.Normalize(nil)
}

func (s *AlgorithmTestSuite) TestOtherAlgorithmsDoNotNormalize(c *gc.C) {
	for _, algo := range []bipartite.Algorithm{bipartite.MRA{}, bipartite.NewRIA(1), bipartite.One{}} {
		scores := []float64{0.1, 0.7}
		algo.Normalize(scores)
		c.Assert(scores, gc.DeepEquals, []float64{0.1, 0.7}, gc.Commentf("%s", algo.Name()))
	}
}
