// Package platformerrors carries typed errors from the repositories up to the HTTP boundary,
// where the type picks the status code and the UUID identifies the failing call site.
package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrorType is the category of a failure.
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeTooManyRecords ErrorType = "TOO_MANY_RECORDS"
	ErrorTypeValidation     ErrorType = "VALIDATION"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden      ErrorType = "FORBIDDEN"
	ErrorTypeInternal       ErrorType = "INTERNAL"
	ErrorTypeExternal       ErrorType = "EXTERNAL"
	ErrorTypeDatabaseError  ErrorType = "DATABASE_ERROR"
	ErrorTypeConfiguration  ErrorType = "CONFIGURATION"
	ErrorTypeRateLimited    ErrorType = "RATE_LIMITED"
)

var statusByType = map[ErrorType]int{
	ErrorTypeNotFound:       http.StatusNotFound,
	ErrorTypeValidation:     http.StatusBadRequest,
	ErrorTypeConflict:       http.StatusConflict,
	ErrorTypeUnauthorized:   http.StatusUnauthorized,
	ErrorTypeForbidden:      http.StatusForbidden,
	ErrorTypeRateLimited:    http.StatusTooManyRequests,
	ErrorTypeExternal:       http.StatusBadGateway,
	ErrorTypeTooManyRecords: http.StatusInternalServerError,
	ErrorTypeDatabaseError:  http.StatusInternalServerError,
	ErrorTypeConfiguration:  http.StatusInternalServerError,
	ErrorTypeInternal:       http.StatusInternalServerError,
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes. Unknown types are 500.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	if status, ok := statusByType[errorType]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Layer is where the error was raised.
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

type requestIDKey struct{}

// WithRequestID stores the request ID on the context so errors created downstream carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}

// PlatformError is a typed failure. Message and Details are safe to show to clients;
// Err is for the logs only.
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Reason    string // machine readable code, set for configuration errors
	Details   any
	Err       error
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.UUID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.UUID, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func (e *PlatformError) GetErrorType() ErrorType {
	return e.Type
}

func (e *PlatformError) GetRequestID() string {
	return e.RequestID
}

func (e *PlatformError) GetUUID() string {
	return e.UUID
}

func (e *PlatformError) WithReason(reason string) *PlatformError {
	e.Reason = reason
	return e
}

// WithDetails attaches client-safe details such as per-field validation messages.
func (e *PlatformError) WithDetails(details any) *PlatformError {
	e.Details = details
	return e
}

// MarshalZerologObject lets the error be logged with event.Object.
func (e *PlatformError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("code", e.UUID).
		Str("type", string(e.Type)).
		Str("layer", string(e.Layer)).
		Str("message", e.Message)
	if e.Reason != "" {
		ev.Str("reason", e.Reason)
	}
	if e.RequestID != "" {
		ev.Str("request_id", e.RequestID)
	}
	if e.Err != nil {
		ev.AnErr("cause", e.Err)
	}
}

// NewError creates a PlatformError. customUUID names the call site.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string) *PlatformError {
	if customUUID == "" {
		customUUID = "unidentified"
	}
	return &PlatformError{
		UUID:      customUUID,
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: RequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationError reports a missing or invalid environment value.
func NewConfigurationError(ctx context.Context, layer Layer, reason, message, customUUID string) *PlatformError {
	return NewError(ctx, layer, ErrorTypeConfiguration, message, nil, customUUID).WithReason(reason)
}

// AsError wraps err for layer. A PlatformError keeps its type, code, reason and details;
// anything else becomes INTERNAL.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	if err == nil {
		return nil
	}
	if pe := GetPlatformError(err); pe != nil {
		wrapped := NewError(ctx, layer, pe.Type, message+": "+pe.Message, pe, pe.UUID)
		wrapped.Reason = pe.Reason
		wrapped.Details = pe.Details
		return wrapped
	}
	return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
}

func IsErrorType(err error, errorType ErrorType) bool {
	pe := GetPlatformError(err)
	return pe != nil && pe.Type == errorType
}

// GetPlatformError returns the first PlatformError in the chain, if any.
func GetPlatformError(err error) *PlatformError {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
