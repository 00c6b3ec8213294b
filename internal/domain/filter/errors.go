package filter

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidSelection = errors.New("invalid filter selection")
)
