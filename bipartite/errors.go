package bipartite

import "golang.org/x/xerrors"

var (
	// ErrInvalidRating is returned when a rating or an initial score falls
	// outside [0, 1].
	ErrInvalidRating = xerrors.New("value must be within [0, 1]")

	// ErrDuplicateName is returned when a reviewer or product name is
	// already registered in the graph.
	ErrDuplicateName = xerrors.New("name already registered")

	// ErrUnknownNode is returned when a reviewer or product does not belong
	// to the graph it is used with.
	ErrUnknownNode = xerrors.New("node does not belong to this graph")

	// ErrNoReview is returned when looking up a review that was never posted.
	ErrNoReview = xerrors.New("reviewer has not reviewed the product")

	// ErrNumericFault is returned by Update when a pass produces a value that
	// is not a finite number. Nothing is committed in that case.
	ErrNumericFault = xerrors.New("non-finite score")

	ErrInvalidConfig = xerrors.New("invalid graph config")

	// ErrClosed is returned when a closed graph is updated or closed again.
	ErrClosed = xerrors.New("review graph is closed")
)
