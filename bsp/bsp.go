// Package bsp runs vertex programs over a graph in bulk synchronous
// supersteps, in the manner of Pregel. Messages sent during a superstep are
// delivered at the start of the next one.
package bsp

import (
	"golang.org/x/xerrors"
)

var (
	// ErrUnknownEdgeSource is returned by AddEdge when the source vertex
	// has not been added to the graph.
	ErrUnknownEdgeSource = xerrors.New("source vertex is not part of the graph")

	// ErrInvalidMessageDestination is returned by calls to SendMessage when
	// the destination vertex is not known by the graph.
	ErrInvalidMessageDestination = xerrors.New("invalid message destination")
)

// Aggregator combines values reported by vertices during a superstep.
// Implementations must be safe for concurrent use.
type Aggregator interface {
	Type() string
	Set(val any)
	Get() any
	Aggregate(val any)

	// Delta returns how much the value moved since the previous call to
	// Delta or Set, without resetting it.
	Delta() any
}
