package impact

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for reference loading and unit parsing.
// The estimator itself never returns an error.
var (
	// ErrInvalidReference indicates a reference document that failed validation.
	ErrInvalidReference = constError("invalid reference data")

	// ErrIncompatibleSchema indicates a reference document whose schema_version
	// is not supported by this build.
	ErrIncompatibleSchema = constError("incompatible reference schema version")

	// ErrInvalidUnit indicates an unrecognized mass unit.
	ErrInvalidUnit = constError("invalid mass unit")

	// ErrNegativeValue indicates a negative mass.
	ErrNegativeValue = constError("negative mass value")

	// ErrCalculationOverflow indicates a value that is not finite after conversion.
	ErrCalculationOverflow = constError("calculation overflow")
)
