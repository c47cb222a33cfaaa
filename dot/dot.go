// Package dot renders review graphs in the Graphviz DOT language.
package dot

import (
	"fmt"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	gonumdot "gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"
)

// Marshal returns the DOT representation of g. Reviewers are drawn as
// ellipses labelled with their anomalous score, products as boxes labelled
// with their summary and every review as an edge labelled with its rating.
// Repeated reviews of the same product produce parallel edges.
func Marshal(g *bipartite.Graph, name string) ([]byte, error) {
	var (
		dg       = multi.NewDirectedGraph()
		reviewer = make(map[*bipartite.Reviewer]node)
		product  = make(map[*bipartite.Product]node)
		nextID   int64
	)
	for _, r := range g.Reviewers() {
		n := node{
			id:    nextID,
			dotID: "reviewer:" + r.Name(),
			attrs: []encoding.Attribute{
				{Key: "label", Value: fmt.Sprintf("%s (%.4f)", r.Name(), r.AnomalousScore())},
				{Key: "shape", Value: "ellipse"},
			},
		}
		dg.AddNode(n)
		reviewer[r] = n
		nextID++
	}
	for _, p := range g.Products() {
		n := node{
			id:    nextID,
			dotID: "product:" + p.Name(),
			attrs: []encoding.Attribute{
				{Key: "label", Value: fmt.Sprintf("%s (%.4f)", p.Name(), p.Summary())},
				{Key: "shape", Value: "box"},
			},
		}
		dg.AddNode(n)
		product[p] = n
		nextID++
	}

	for i, rv := range g.Reviews() {
		dg.SetLine(line{
			id:    int64(i),
			from:  reviewer[rv.Reviewer()],
			to:    product[rv.Product()],
			attrs: []encoding.Attribute{{Key: "label", Value: fmt.Sprintf("%.4f", rv.Rating())}},
		})
	}

	out, err := gonumdot.MarshalMulti(dg, name, "", "\t")
	if err != nil {
		return nil, xerrors.Errorf("marshal review graph %s: %w", g.ID(), err)
	}
	return out, nil
}

type node struct {
	id    int64
	dotID string
	attrs []encoding.Attribute
}

func (n node) ID() int64 { return n.id }
func (n node) DOTID() string { return n.dotID }
func (n node) Attributes() []encoding.Attribute { return n.attrs }

type line struct {
	id       int64
	from, to node
	attrs    []encoding.Attribute
}

func (l line) From() graph.Node { return l.from }
func (l line) To() graph.Node { return l.to }
func (l line) ID() int64 { return l.id }
func (l line) Attributes() []encoding.Attribute { return l.attrs }

func (l line) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}
