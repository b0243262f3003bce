package energy

import "errors"

// Sentinel errors for the energy package.
// An insufficient pool is an expected outcome, not a bug; Spend reports it
// through its result value and callers that prefer an error wrap
// ErrInsufficient instead.
var (
	ErrValidation   = errors.New("energy: invalid input")
	ErrNotFound     = errors.New("energy: pool not initialized")
	ErrInsufficient = errors.New("energy: insufficient charges")
)
