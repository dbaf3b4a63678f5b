package sentinel

import "errors"

// Sentinel errors for facts about models and inference collaborators. Lower
// layers return these (optionally wrapped) so callers can translate them into
// domain errors.
//
// These represent states, not validation failures:
// - ErrUnsupported: a distribution has no parameterization or generator for the request
// - ErrInvalidState: a program is in the wrong state for the requested operation
//
// For validation errors (bad config, bad observations), use pkg/domain-errors directly.
var (
	ErrUnsupported  = errors.New("unsupported")
	ErrInvalidState = errors.New("invalid state")
)
