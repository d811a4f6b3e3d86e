package booking

import "net/http"

type ErrorCode string

const (
	ErrorCodeValidation        ErrorCode = "VALIDATION"
	ErrorCodeSeatClassMismatch ErrorCode = "SEAT_CLASS_MISMATCH"
	ErrorCodeSeatUnavailable   ErrorCode = "SEAT_UNAVAILABLE"
	ErrorCodeSeatCount         ErrorCode = "SEAT_COUNT"
	ErrorCodePhase             ErrorCode = "PHASE"
	ErrorCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrorCodeCancelNotAllowed  ErrorCode = "CANCEL_NOT_ALLOWED"
	ErrorCodeTransport         ErrorCode = "TRANSPORT_FAILURE"
	ErrorCodeBookingRejected   ErrorCode = "BOOKING_REJECTED"
	ErrorCodeInternalFailure   ErrorCode = "INTERNAL_FAILURE"
)

// AppError carries an HTTP status alongside a stable machine code so the
// handler layer can map failures without string matching.
type AppError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: ErrorCodeValidation, Message: msg}
}

func NewSeatCountError(msg string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: ErrorCodeSeatCount, Message: msg}
}

func NewPhaseError(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: ErrorCodePhase, Message: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: ErrorCodeNotFound, Message: msg}
}

func NewCancelNotAllowedError(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: ErrorCodeCancelNotAllowed, Message: msg}
}

func NewTransportError(msg string) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: ErrorCodeTransport, Message: msg}
}

func NewBookingRejectedError(msg string) *AppError {
	return &AppError{Status: http.StatusUnprocessableEntity, Code: ErrorCodeBookingRejected, Message: msg}
}
