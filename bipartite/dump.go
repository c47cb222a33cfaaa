package bipartite

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type credibilityRecord struct {
	ProductID   string  `json:"product_id"`
	Credibility float64 `json:"credibility"`
}

// Credibilities returns the current credibility of every product keyed by
// product name.
func (g *Graph) Credibilities() map[string]float64 {
	return lo.SliceToMap(g.products, func(p *Product) (string, float64) {
		return p.name, g.credibility.Credibility(p)
	})
}

// DumpCredibilities writes the credibility of every product to w as one
// JSON object per line, in product registration order.
func (g *Graph) DumpCredibilities(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, p := range g.products {
		rec := credibilityRecord{ProductID: p.name, Credibility: g.credibility.Credibility(p)}
		if err := enc.Encode(rec); err != nil {
			return xerrors.Errorf("dump credibility of product %q: %w", p.name, err)
		}
	}
	return nil
}
