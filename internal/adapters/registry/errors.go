package registry

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDataUnavailable = errors.New("dataset unavailable")
	ErrUnknownSource   = errors.New("unknown dataset source")
)
