package table

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyData       = errors.New("data has no header row")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRowWidth        = errors.New("row width does not match column count")
)
