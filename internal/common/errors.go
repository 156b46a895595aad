package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes carried by AppError.
const (
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeEmptyPayload     = "EMPTY_PAYLOAD"
	CodeOCRFailed        = "OCR_FAILED"
	CodeAIUnavailable    = "AI_UNAVAILABLE"
	CodeAIParse          = "AI_PARSE_FAILED"
	CodeStore            = "STORE_ERROR"
)

// Common application errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrUpstream         = errors.New("upstream collaborator failed")
	ErrAIUnavailable    = errors.New("ai service unavailable")
	ErrParse            = errors.New("unparseable collaborator response")
	ErrInternal         = errors.New("internal error")
	ErrDatabase         = errors.New("database error")
	ErrValidation       = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsInputRejection reports whether err rejects the caller's input before any processing ran.
func IsInputRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedMedia) ||
		errors.Is(err, ErrPayloadTooLarge) ||
		errors.Is(err, ErrValidation)
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func UnavailableError(message string) error {
	return status.Error(codes.Unavailable, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps the error taxonomy onto gRPC status codes. Errors that already
// carry a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case IsInputRejection(err):
		return InvalidArgumentError(err.Error())
	case errors.Is(err, ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrAIUnavailable), errors.Is(err, ErrParse):
		return UnavailableError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return InternalError(err.Error())
	}
}
