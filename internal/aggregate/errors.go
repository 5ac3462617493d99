package aggregate

import "errors"

var (
	// ErrInvalidTransaction is returned when a transaction references a
	// missing wallet or chain, carries a negative volume or gas, or has a
	// non-positive timestamp.
	ErrInvalidTransaction = errors.New("invalid transaction data")

	// ErrInvalidPageRequest is returned for a negative page index or a
	// non-positive page size.
	ErrInvalidPageRequest = errors.New("invalid page request")
)
