/*
   Package ria scores reviewers and products of a review graph with the
   Mutually Reinforcing Analysis family of algorithms.

   Each factory returns an empty bipartite.Graph configured with one
   algorithm and the credibility policy that algorithm is meant to be used
   with. Callers populate the graph and then invoke Update (or Run) until
   the scores settle.
*/
package ria

import (
	"sort"

	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/samber/lo"
	"golang.org/x/xerrors"
)

// ErrUnknownAlgorithm is returned by ConfigFor for unsupported names.
var ErrUnknownAlgorithm = xerrors.New("unknown algorithm")

// MRAConfig returns the config of a graph scored with MRA.
func MRAConfig() bipartite.Config {
	return bipartite.Config{Algorithm: bipartite.MRA{}, Credibility: bipartite.NewUniformCredibility}
}

// RIAConfig returns the config of a graph scored with RIA. Alpha controls
// how quickly the weight of a reviewer drops as it becomes more anomalous
// than the others.
func RIAConfig(alpha float64) bipartite.Config {
	return bipartite.Config{Algorithm: bipartite.NewRIA(alpha), Credibility: bipartite.NewWeightedCredibility}
}

// OneConfig returns the config of a graph scored by a single MRA pass.
func OneConfig() bipartite.Config {
	return bipartite.Config{Algorithm: bipartite.One{}, Credibility: bipartite.NewUniformCredibility}
}

// OneSumConfig returns the config of a graph scored with OneSum.
func OneSumConfig() bipartite.Config {
	return bipartite.Config{Algorithm: bipartite.OneSum{}, Credibility: bipartite.NewUniformCredibility}
}

var configs = map[string]func(alpha float64) bipartite.Config{
	bipartite.MRA{}.Name():    func(float64) bipartite.Config { return MRAConfig() },
	bipartite.RIA{}.Name():    RIAConfig,
	bipartite.One{}.Name():    func(float64) bipartite.Config { return OneConfig() },
	bipartite.OneSum{}.Name(): func(float64) bipartite.Config { return OneSumConfig() },
}

// ConfigFor returns the config of the algorithm with the given name. Alpha
// is only used by RIA.
func ConfigFor(name string, alpha float64) (bipartite.Config, error) {
	fn, ok := configs[name]
	if !ok {
		return bipartite.Config{}, xerrors.Errorf("%q: %w", name, ErrUnknownAlgorithm)
	}
	return fn(alpha), nil
}

// AlgorithmNames returns the names accepted by ConfigFor in lexical order.
func AlgorithmNames() []string {
	names := lo.Keys(configs)
	sort.Strings(names)
	return names
}

// MRAGraph returns an empty graph scored with MRA.
func MRAGraph() (*bipartite.Graph, error) { return bipartite.NewGraph(MRAConfig()) }

// RIAGraph returns an empty graph scored with RIA.
func RIAGraph(alpha float64) (*bipartite.Graph, error) { return bipartite.NewGraph(RIAConfig(alpha)) }

// OneGraph returns an empty graph scored by a single MRA pass.
func OneGraph() (*bipartite.Graph, error) { return bipartite.NewGraph(OneConfig()) }

// OneSumGraph returns an empty graph scored with OneSum.
func OneSumGraph() (*bipartite.Graph, error) { return bipartite.NewGraph(OneSumConfig()) }
