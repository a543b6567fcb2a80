// file: internals/features/pages/service/errors.go

package service

import (
	"errors"

	"parasempre_backend/internals/constants"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrReadFailed      = errors.New("page read failed")
	ErrSaveFailed      = errors.New("page save failed")
	ErrPaymentRequired = errors.New("payment required")
	ErrEditDenied      = errors.New("edit credentials rejected")
)

// ValidationError names the offending field and the message key shown to the user.
type ValidationError struct {
	Field string
	Key   string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field
}

func invalid(field, key string) error {
	return &ValidationError{Field: field, Key: key}
}

// MessageKey maps a service error to a user-facing message key.
func MessageKey(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Key
	case errors.Is(err, ErrPageNotFound):
		return constants.MsgPageNotFound
	case errors.Is(err, ErrReadFailed):
		return constants.MsgReadFailed
	case errors.Is(err, ErrPaymentRequired):
		return constants.MsgPaymentRequired
	case errors.Is(err, ErrEditDenied):
		return constants.MsgInvalidEditAuth
	default:
		return constants.MsgSaveFailed
	}
}
