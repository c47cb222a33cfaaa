package ingest

import (
	"sync"

	"github.com/Ahmed-Sermani/ria/pipeline"
)

var (
	_ pipeline.Payload = (*rowPayload)(nil)

	payloadPool = sync.Pool{
		New: func() any { return new(rowPayload) },
	}
)

type rowPayload struct {
	Line   int
	Fields []string

	Reviewer string
	Product  string
	Rating   float64

	// Err is set by the stage that rejected the row. Later stages pass
	// rejected rows through untouched.
	Err error
}

// MarkAsProcessed resets the payload and returns it to the pool.
func (p *rowPayload) MarkAsProcessed() {
	p.Line = 0
	p.Fields = p.Fields[:0]
	p.Reviewer = ""
	p.Product = ""
	p.Rating = 0
	p.Err = nil
	payloadPool.Put(p)
}
