package ingest

import (
	"context"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/pipeline"
	"golang.org/x/xerrors"
)

var _ pipeline.Processor = (*graphUpdater)(nil)

type graphUpdater struct {
	g Graph
}

func newGraphUpdater(g Graph) *graphUpdater {
	return &graphUpdater{
		g: g,
	}
}

// Process registers the reviewer and the product of the row if the graph
// has not seen them yet and adds the review. The rating is validated before
// any node is registered so a rejected row leaves the graph untouched.
func (gu *graphUpdater) Process(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
	payload := p.(*rowPayload)
	if payload.Err != nil {
		return p, nil
	}
	if !(payload.Rating >= 0 && payload.Rating <= 1) {
		payload.Err = xerrors.Errorf("rating %v: %w", payload.Rating, bipartite.ErrInvalidRating)
		return p, nil
	}

	reviewer, ok := gu.g.Reviewer(payload.Reviewer)
	if !ok {
		var err error
		if reviewer, err = gu.g.NewReviewer(payload.Reviewer); err != nil {
			payload.Err = err
			return p, nil
		}
	}
	product, ok := gu.g.Product(payload.Product)
	if !ok {
		var err error
		if product, err = gu.g.NewProduct(payload.Product); err != nil {
			payload.Err = err
			return p, nil
		}
	}

	if _, err := gu.g.AddReview(reviewer, product, payload.Rating); err != nil {
		payload.Err = err
	}
	return p, nil
}
