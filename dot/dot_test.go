package dot_test

import (
	"strings"
	"testing"

	"github.com/Ahmed-Sermani/ria"
	"github.com/Ahmed-Sermani/ria/bipartite/bipartitetest"
	"github.com/Ahmed-Sermani/ria/dot"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(DotTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

type DotTestSuite struct{}

func (s *DotTestSuite) TestMarshal(c *gc.C) {
	g, err := ria.MRAGraph()
	c.Assert(err, gc.IsNil)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)
	// A repeated review becomes a parallel edge.
	bipartitetest.Populate(c, g, []bipartitetest.Rating{{Reviewer: "reviewer-0", Product: "product-0", Value: 0.3}})
	_, err = g.NewProduct("unrated")
	c.Assert(err, gc.IsNil)

	out, err := dot.Marshal(g, "toy")
	c.Assert(err, gc.IsNil)
	text := string(out)

	c.Assert(strings.HasPrefix(text, "digraph toy {"), gc.Equals, true, gc.Commentf("%s", text))
	for _, name := range []string{"reviewer-0", "reviewer-1", "product-0", "product-1", "product-2", "unrated"} {
		c.Assert(strings.Contains(text, name), gc.Equals, true, gc.Commentf("missing %s in:\n%s", name, text))
	}
	for _, label := range []string{"0.2000", "0.9000", "0.6000", "0.1000", "0.7000", "0.3000"} {
		c.Assert(strings.Contains(text, label), gc.Equals, true, gc.Commentf("missing edge label %s in:\n%s", label, text))
	}
	c.Assert(strings.Count(text, "->"), gc.Equals, 6)
	c.Assert(strings.Count(text, "shape=box"), gc.Equals, 4)
	c.Assert(strings.Count(text, "shape=ellipse"), gc.Equals, 2)
}
