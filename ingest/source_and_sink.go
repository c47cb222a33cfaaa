package ingest

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/Ahmed-Sermani/ria/pipeline"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

type csvSource struct {
	r       *csv.Reader
	payload *rowPayload
	err     error
}

func (s *csvSource) Error() error { return s.err }

func (s *csvSource) Payload() pipeline.Payload { return s.payload }

func (s *csvSource) Next(context.Context) bool {
	record, err := s.r.Read()
	if err == io.EOF {
		return false
	}

	var parseErr *csv.ParseError
	if err != nil && !(xerrors.As(err, &parseErr) && parseErr.Err == csv.ErrFieldCount) {
		s.err = err
		return false
	}

	payload := payloadPool.Get().(*rowPayload)
	payload.Fields = append(payload.Fields, record...)
	if err != nil {
		// A row with the wrong number of fields is rejected but does not
		// stop the load.
		payload.Line, payload.Err = parseErr.Line, err
	} else {
		payload.Line, _ = s.r.FieldPos(0)
	}
	s.payload = payload
	return true
}

// collectingSink counts the rows that reached the end of the pipeline and
// collects the reasons rows were rejected.
type collectingSink struct {
	stats   Stats
	rowErrs error
}

func (s *collectingSink) Consume(_ context.Context, p pipeline.Payload) error {
	payload := p.(*rowPayload)
	s.stats.Rows++
	if payload.Err != nil {
		s.stats.Rejected++
		s.rowErrs = multierror.Append(s.rowErrs, xerrors.Errorf("line %d: %w", payload.Line, payload.Err))
		return nil
	}
	s.stats.Reviews++
	return nil
}
