package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidSpan        = errors.New("invalid span: start must be >= 1 and end >= start")
	ErrInvalidDocBlock    = errors.New("invalid doc block span")
	ErrDocOverlapsSpan    = errors.New("doc block overlaps function span")
	ErrMissingFunction    = errors.New("found result requires function details")
	ErrUnexpectedFunction = errors.New("not_found result cannot carry function details")
	ErrInvalidOutcome     = errors.New("invalid locate outcome")
)
