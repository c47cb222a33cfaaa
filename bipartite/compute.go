package bipartite

import (
	"context"
	"math"
	"sort"

	"github.com/Ahmed-Sermani/ria/bsp"
	"github.com/Ahmed-Sermani/ria/bsp/message"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Supersteps of an update pass.
const (
	sendRatingsStep = iota
	summarizeStep
	scoreStep

	numPassSteps
)

// Aggregator names.
const (
	stagedAggr      = "staged"
	summaryDiffAggr = "summary_diff"
	sadAggr         = "SAD"

	// Range of the anomalous scores computed in a pass, before Normalize.
	rawScoreMinAggr = "raw_score_min"
	rawScoreMaxAggr = "raw_score_max"
)

func reviewerVertexID(name string) string { return "reviewer:" + name }

func productVertexID(name string) string { return "product:" + name }

// vertexState is the value of a bsp vertex. Exactly one of reviewer and
// product is set. next holds the value computed by the running pass; it is
// only meaningful while staged is true.
type vertexState struct {
	reviewer *Reviewer
	product  *Product

	next   float64
	staged bool
}

// passState holds the inputs of a pass that are computed once, before the
// superstep that needs them, and only read while vertices are processed.
type passState struct {
	weight      func(anomalous float64) float64
	credibility map[*Product]float64
}

// ratingMessage carries a rating from a reviewer to the reviewed product.
type ratingMessage struct {
	seq    int
	from   string
	rating float64
	weight float64
}

func (ratingMessage) Type() string { return "rating" }

// deviationMessage carries, back to the reviewer, how far one of its
// ratings is from the new summary of the product.
type deviationMessage struct {
	seq         int
	deviation   float64
	credibility float64
}

func (deviationMessage) Type() string { return "deviation" }

func (g *Graph) preStep(_ context.Context, bg *bsp.Graph[*vertexState, *Review]) error {
	switch bg.Superstep() {
	case sendRatingsStep:
		scores := make([]float64, len(g.reviewers))
		for i, r := range g.reviewers {
			scores[i] = r.anomalous
		}
		g.pass = passState{weight: reviewerWeight(g.algorithm.Alpha(), scores)}

		for _, v := range bg.Vertices() {
			st := v.Value()
			st.next, st.staged = 0, false
			// Products wake up when a rating reaches them.
			if st.reviewer != nil {
				v.Activate()
			}
		}
		bg.Aggregator(stagedAggr).Set(0)
		bg.Aggregator(summaryDiffAggr).Set(0.0)
		bg.Aggregator(rawScoreMinAggr).Set(math.Inf(1))
		bg.Aggregator(rawScoreMaxAggr).Set(math.Inf(-1))
	case summarizeStep:
		g.pass.credibility = make(map[*Product]float64, len(g.products))
		for _, p := range g.products {
			c := g.credibility.Credibility(p)
			if !isFinite(c) {
				return xerrors.Errorf("credibility of product %q: %w", p.name, ErrNumericFault)
			}
			g.pass.credibility[p] = c
		}
	}
	return nil
}

// postStep normalizes the anomalous scores staged by the scoring superstep
// and rejects the pass if any of them is not finite.
func (g *Graph) postStep(_ context.Context, bg *bsp.Graph[*vertexState, *Review], _ int) error {
	if bg.Superstep() != scoreStep {
		return nil
	}

	var (
		staged []*vertexState
		scores []float64
	)
	for _, r := range g.reviewers {
		if st := bg.Vertex(reviewerVertexID(r.name)).Value(); st.staged {
			staged = append(staged, st)
			scores = append(scores, st.next)
		}
	}
	g.algorithm.Normalize(scores)
	for i, st := range staged {
		if !isFinite(scores[i]) {
			return xerrors.Errorf("normalized anomalous score of reviewer %q: %w", st.reviewer.name, ErrNumericFault)
		}
		st.next = scores[i]
	}
	return nil
}

// keepRunning ends the pass early once a superstep processed no vertex,
// which happens when the graph has no reviewers or no reviews.
func (g *Graph) keepRunning(_ context.Context, _ *bsp.Graph[*vertexState, *Review], activeInStep int) (bool, error) {
	return activeInStep > 0, nil
}

// compute is the bsp.ComputeFunc of the review graph. See the package
// documentation for the role of each superstep.
func (g *Graph) compute(bg *bsp.Graph[*vertexState, *Review], v *bsp.Vertex[*vertexState, *Review], msgIt message.Iterator) error {
	v.Freeze()
	st := v.Value()
	switch bg.Superstep() {
	case sendRatingsStep:
		if st.reviewer == nil {
			return nil
		}
		return g.sendRatings(bg, v)
	case summarizeStep:
		if st.product == nil {
			return nil
		}
		return g.summarize(bg, st, msgIt)
	case scoreStep:
		if st.reviewer == nil {
			return nil
		}
		return g.score(bg, st, msgIt)
	}
	return nil
}

func (g *Graph) sendRatings(bg *bsp.Graph[*vertexState, *Review], v *bsp.Vertex[*vertexState, *Review]) error {
	w := g.pass.weight(v.Value().reviewer.anomalous)
	for _, e := range v.Edges() {
		rv := e.Value()
		msg := ratingMessage{seq: rv.seq, from: v.ID(), rating: rv.rating, weight: w}
		if err := bg.SendMessage(e.DstID(), msg); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) summarize(bg *bsp.Graph[*vertexState, *Review], st *vertexState, msgIt message.Iterator) error {
	var msgs []ratingMessage
	for msgIt.Next() {
		if m, ok := msgIt.Message().(ratingMessage); ok {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		// Products nobody reviewed keep their summary.
		return nil
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].seq < msgs[j].seq })

	ratings := make([]float64, len(msgs))
	weights := make([]float64, len(msgs))
	for i, m := range msgs {
		ratings[i], weights[i] = m.rating, m.weight
	}
	var summary float64
	if floats.Sum(weights) == 0 {
		summary = stat.Mean(ratings, nil)
	} else {
		summary = stat.Mean(ratings, weights)
	}
	if !isFinite(summary) {
		return xerrors.Errorf("summary of product %q: %w", st.product.name, ErrNumericFault)
	}

	st.next, st.staged = summary, true
	bg.Aggregator(stagedAggr).Aggregate(1)
	bg.Aggregator(summaryDiffAggr).Aggregate(math.Abs(summary - st.product.Summary()))

	cred := g.pass.credibility[st.product]
	for _, m := range msgs {
		reply := deviationMessage{seq: m.seq, deviation: math.Abs(m.rating - summary), credibility: cred}
		if err := bg.SendMessage(m.from, reply); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) score(bg *bsp.Graph[*vertexState, *Review], st *vertexState, msgIt message.Iterator) error {
	var msgs []deviationMessage
	for msgIt.Next() {
		if m, ok := msgIt.Message().(deviationMessage); ok {
			msgs = append(msgs, m)
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].seq < msgs[j].seq })

	devs := make([]Deviation, len(msgs))
	for i, m := range msgs {
		devs[i] = Deviation{Value: m.deviation, Credibility: m.credibility}
	}
	score := g.algorithm.AnomalousScore(devs)
	if !isFinite(score) {
		return xerrors.Errorf("anomalous score of reviewer %q: %w", st.reviewer.name, ErrNumericFault)
	}

	st.next, st.staged = score, true
	bg.Aggregator(stagedAggr).Aggregate(1)
	bg.Aggregator(rawScoreMinAggr).Aggregate(score)
	bg.Aggregator(rawScoreMaxAggr).Aggregate(score)
	return nil
}
