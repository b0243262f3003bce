package fog

import "errors"

// Sentinel errors for the fog package.
// Use errors.Is to check: errors.Is(err, fog.ErrValidation)
var (
	ErrValidation = errors.New("fog: invalid input")
	ErrNotFound   = errors.New("fog: mastery record not found")
)
