package bipartite_test

import (
	"context"
	"time"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/bipartite/bipartitetest"
	"github.com/juju/clock/testclock"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(RunTestSuite))

type RunTestSuite struct {
	g *bipartite.Graph
}

func (s *RunTestSuite) SetUpTest(c *gc.C) {
	g, err := bipartite.NewGraph(bipartite.Config{
		Algorithm:   bipartite.MRA{},
		Credibility: bipartite.NewUniformCredibility,
	})
	c.Assert(err, gc.IsNil)
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)
	s.g = g
}

func (s *RunTestSuite) TearDownTest(c *gc.C) {
	c.Assert(s.g.Close(), gc.IsNil)
}

func (s *RunTestSuite) TestRunUntilConverged(c *gc.C) {
	clk := steppingClock{testclock.NewClock(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))}

	res, err := s.g.Run(context.TODO(), bipartite.RunConfig{Clock: clk})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Converged, gc.Equals, true)
	c.Assert(res.Iterations, gc.Equals, 3)
	c.Assert(res.Diff < bipartite.DefaultThreshold, gc.Equals, true)
	c.Assert(res.Elapsed, gc.Equals, time.Second)
	c.Assert(s.g.Passes(), gc.Equals, 3)
}

func (s *RunTestSuite) TestRunStopsAtIterationBudget(c *gc.C) {
	res, err := s.g.Run(context.TODO(), bipartite.RunConfig{MaxIterations: 1})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Converged, gc.Equals, false)
	c.Assert(res.Iterations, gc.Equals, 1)
	c.Assert(res.Diff, bipartitetest.AlmostEquals, 0.225, 1e-12)
}

func (s *RunTestSuite) TestRunZeroThresholdSelectsDefault(c *gc.C) {
	res, err := s.g.Run(context.TODO(), bipartite.RunConfig{Threshold: 1})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Converged, gc.Equals, true)
	c.Assert(res.Iterations, gc.Equals, 1)

	res, err = s.g.Run(context.TODO(), bipartite.RunConfig{Threshold: 0})
	c.Assert(err, gc.IsNil)
	c.Assert(res.Converged, gc.Equals, true)
	c.Assert(res.Iterations, gc.Equals, 2)
	c.Assert(res.Diff < bipartite.DefaultThreshold, gc.Equals, true)
	c.Assert(s.g.Passes(), gc.Equals, 3)
}

func (s *RunTestSuite) TestRunWithInvalidConfig(c *gc.C) {
	_, err := s.g.Run(context.TODO(), bipartite.RunConfig{MaxIterations: -1})
	c.Assert(xerrors.Is(err, bipartite.ErrInvalidConfig), gc.Equals, true)

	_, err = s.g.Run(context.TODO(), bipartite.RunConfig{Threshold: -1})
	c.Assert(xerrors.Is(err, bipartite.ErrInvalidConfig), gc.Equals, true)
	c.Assert(s.g.Passes(), gc.Equals, 0)
}

// steppingClock moves time forward by a second every time it is read.
type steppingClock struct {
	*testclock.Clock
}

func (clk steppingClock) Now() time.Time {
	now := clk.Clock.Now()
	clk.Clock.Advance(time.Second)
	return now
}
