package physics

import "errors"

var (
	// ErrInvalidDimensions indicates a non-positive or non-finite arena size.
	ErrInvalidDimensions = errors.New("physics: arena dimensions must be positive and finite")

	// ErrInvalidRadius indicates a non-positive or non-finite ball radius.
	ErrInvalidRadius = errors.New("physics: ball radius must be positive and finite")

	// ErrInvalidRates indicates a non-positive simulation or draw rate.
	ErrInvalidRates = errors.New("physics: simulation and draw rates must be positive")

	// ErrNonFinite indicates a body whose position or velocity became NaN or Inf.
	ErrNonFinite = errors.New("physics: non-finite body state")
)
