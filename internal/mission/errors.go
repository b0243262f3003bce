package mission

import "errors"

// ErrValidation marks rejected mission input. Callers match it with
// errors.Is.
var ErrValidation = errors.New("mission: invalid input")
