package bipartite_test

import (
	"bytes"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/bipartite/bipartitetest"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(DumpTestSuite))

type DumpTestSuite struct{}

func (s *DumpTestSuite) TestDumpCredibilities(c *gc.C) {
	g, err := bipartite.NewGraph(bipartite.Config{
		Algorithm:   bipartite.MRA{},
		Credibility: bipartite.NewDegreeCredibility,
	})
	c.Assert(err, gc.IsNil)
	defer func() { c.Assert(g.Close(), gc.IsNil) }()
	bipartitetest.Populate(c, g, bipartitetest.ToyRatings)

	var buf bytes.Buffer
	c.Assert(g.DumpCredibilities(&buf), gc.IsNil)
	c.Assert(buf.String(), gc.Equals, ""+
		`{"product_id":"product-0","credibility":0.5}`+"\n"+
		`{"product_id":"product-1","credibility":1}`+"\n"+
		`{"product_id":"product-2","credibility":1}`+"\n",
	)

	c.Assert(g.Credibilities(), gc.DeepEquals, map[string]float64{
		"product-0": 0.5,
		"product-1": 1,
		"product-2": 1,
	})
}
