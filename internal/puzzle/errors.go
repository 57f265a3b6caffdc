package puzzle

import "errors"

var (
	// ErrNetworkFailure marks a move authority that is unreachable or answered
	// with a malformed response. The session keeps its board and disables input.
	ErrNetworkFailure = errors.New("puzzle: move authority unavailable")

	// ErrInvariantViolation marks a board that is not a permutation of 0..N²-1.
	// Such a board is never applied; the session is torn down instead.
	ErrInvariantViolation = errors.New("puzzle: board invariant violated")
)
