package bipartite

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Reviewer is a node of the review graph. Its anomalous score estimates how
// likely the reviewer is to post biased reviews: 0 is trustworthy and 1 is
// highly anomalous.
type Reviewer struct {
	graphID   uuid.UUID
	name      string
	anomalous float64
	reviews   []*Review
}

func (r *Reviewer) Name() string { return r.name }

func (r *Reviewer) AnomalousScore() float64 { return r.anomalous }

// Reviews returns the reviews posted by r in the order they were added.
func (r *Reviewer) Reviews() []*Review { return append([]*Review(nil), r.reviews...) }

func (r *Reviewer) String() string { return r.name }

// Product is a node of the review graph. Its summary is the credibility
// weighted consensus of the ratings it received.
type Product struct {
	graphID    uuid.UUID
	name       string
	summary    float64
	summarized bool
	reviews    []*Review
}

func (p *Product) Name() string { return p.name }

// Summary returns the summary computed by the last update pass. Products
// that no pass has summarized yet report the plain mean of their ratings,
// or 0 when they have no reviews.
func (p *Product) Summary() float64 {
	if p.summarized {
		return p.summary
	}
	if len(p.reviews) == 0 {
		return 0
	}
	return stat.Mean(p.ratings(), nil)
}

// Reviews returns the reviews p received in the order they were added.
func (p *Product) Reviews() []*Review { return append([]*Review(nil), p.reviews...) }

func (p *Product) String() string { return p.name }

func (p *Product) ratings() []float64 {
	ratings := make([]float64, len(p.reviews))
	for i, rv := range p.reviews {
		ratings[i] = rv.rating
	}
	return ratings
}

// Review is a rating a reviewer posted for a product. Reviews are immutable.
type Review struct {
	// seq is the position of the review in the graph's edge list. Update
	// passes aggregate ratings in seq order.
	seq      int
	reviewer *Reviewer
	product  *Product
	rating   float64
}

func (rv *Review) Reviewer() *Reviewer { return rv.reviewer }

func (rv *Review) Product() *Product { return rv.product }

func (rv *Review) Rating() float64 { return rv.rating }
