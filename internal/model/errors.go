// Package model defines the domain entities shared across the
// service along with the typed error every layer raises.  Handlers
// translate error codes into HTTP statuses; the service and rules
// never reinterpret them.
package model

import "errors"

// ErrorCode discriminates booking failures so that the boundary
// layer can pick a transport status without string matching.
type ErrorCode int

const (
	// CodeUnknown covers any unexpected failure. Requests that hit it
	// are terminal; nothing is retried.
	CodeUnknown ErrorCode = iota
	// CodeRoomNotAvailable signals the room is taken for the requested dates.
	CodeRoomNotAvailable
	// CodeBadRequest signals a booking rule rejected the request.
	CodeBadRequest
	// CodeUnauthorized signals the caller does not own the booking.
	CodeUnauthorized
	// CodeNotFound signals a missing booking or room.
	CodeNotFound
)

// BookingError is the single error type raised by rules and
// repositories.  It carries a code for status mapping and a
// human-readable message for the response body.
type BookingError struct {
	Code    ErrorCode
	Message string
}

// NewBookingError builds a BookingError with the given code and message.
func NewBookingError(code ErrorCode, message string) *BookingError {
	return &BookingError{Code: code, Message: message}
}

func (e *BookingError) Error() string { return e.Message }

// CodeOf extracts the ErrorCode from err.  Untyped errors map to
// CodeUnknown so the boundary treats them as internal failures.
func CodeOf(err error) ErrorCode {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	return CodeUnknown
}
