package schema

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrSchemaMismatch = errors.New("schema mismatch")
)
