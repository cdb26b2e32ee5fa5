package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoUsableRates   = errors.New("no usable exchange rates after initial load")
	ErrNegativeBalance = errors.New("negative balance detected")
)

// ValidationError reports bad input to a mutation or query. It is always
// surfaced to the caller and never treated as a system fault.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
