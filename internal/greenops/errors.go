package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrNegativeValue indicates a negative footprint.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a NaN or infinite footprint or result.
	ErrCalculationOverflow = constError("calculation overflow")
)
