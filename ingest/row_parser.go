package ingest

import (
	"context"
	"strconv"
	"strings"

	"github.com/Ahmed-Sermani/ria/pipeline"
	"golang.org/x/xerrors"
)

var _ pipeline.Processor = (*rowParser)(nil)

type rowParser struct{}

func newRowParser() *rowParser {
	return new(rowParser)
}

func (rp *rowParser) Process(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
	payload := p.(*rowPayload)
	if payload.Err != nil {
		return p, nil
	}

	payload.Reviewer = strings.TrimSpace(payload.Fields[0])
	payload.Product = strings.TrimSpace(payload.Fields[1])
	if payload.Reviewer == "" || payload.Product == "" {
		payload.Err = xerrors.New("reviewer and product names must not be empty")
		return p, nil
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(payload.Fields[2]), 64)
	if err != nil {
		payload.Err = xerrors.Errorf("could not parse rating: %w", err)
		return p, nil
	}
	payload.Rating = rating
	return p, nil
}
