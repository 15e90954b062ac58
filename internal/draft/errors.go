package draft

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrClosed is returned by every operation on a submitted or cancelled session.
	ErrClosed = errors.New("draft session is closed")

	// ErrUnknownField is returned when setting a field the form does not have.
	ErrUnknownField = errors.New("unknown form field")
)

// Validation messages.
const (
	MsgNameRequired        = "Product name is required"
	MsgCategoryRequired    = "Category is required"
	MsgPriceInvalid        = "Valid price is required"
	MsgStockInvalid        = "Valid stock quantity is required"
	MsgImageRequired       = "Product image is required"
	MsgDescriptionRequired = "Product description is required"
	MsgWeightRequired      = "Weight is required for automatic calculations"
	MsgImpactOutOfRange    = "Weight or dimensions are too large to estimate"
	MsgStatusInvalid       = "Status must be active or inactive"
)

// FieldErrors maps form fields to validation messages.
type FieldErrors map[Field]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[Field(k)])
	}
	return "invalid product: " + strings.Join(parts, "; ")
}
