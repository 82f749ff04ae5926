package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidInput     = errors.New("invalid input")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrNotPositive      = errors.New("must be positive")
)
