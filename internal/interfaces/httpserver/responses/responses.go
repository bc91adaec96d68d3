package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Details       any    `json:"details,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// SuccessResponse is the body of endpoints that only acknowledge.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// HandleError writes err as the response. A PlatformError picks the status from its type;
// anything else is a 500 carrying only message. Server-side failures without a reason show
// message instead of the internal text.
func HandleError(reqCtx *gin.Context, err error, message string) {
	pe := platformerrors.GetPlatformError(err)
	if pe == nil {
		if err != nil {
			_ = reqCtx.Error(err)
		}
		abortWith(reqCtx, http.StatusInternalServerError, ErrorResponse{Error: message, ErrorInstance: err})
		return
	}

	status := platformerrors.ErrorTypeToHTTPStatus(pe.GetErrorType())
	shown := pe.Message
	if shown == "" || (status >= http.StatusInternalServerError && pe.Reason == "" && message != "") {
		shown = message
	}
	_ = reqCtx.Error(err)
	abortWith(reqCtx, status, ErrorResponse{
		Code:          pe.GetUUID(),
		Error:         shown,
		Reason:        pe.Reason,
		Details:       pe.Details,
		ErrorInstance: pe,
		RequestID:     pe.GetRequestID(),
	})
}

// HandleNewError raises a typed error at the route layer and writes it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	HandleNewErrorWithDetails(reqCtx, errorType, message, nil, uuid)
}

func HandleNewErrorWithDetails(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, details any, uuid string) {
	pe := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid).WithDetails(details)
	_ = reqCtx.Error(pe)
	abortWith(reqCtx, platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Code:          pe.GetUUID(),
		Error:         message,
		Details:       details,
		ErrorInstance: pe,
		RequestID:     pe.GetRequestID(),
	})
}

func abortWith(reqCtx *gin.Context, status int, body ErrorResponse) {
	body.Message = body.Error
	if body.RequestID == "" {
		body.RequestID = platformerrors.RequestIDFromContext(reqCtx.Request.Context())
	}
	reqCtx.AbortWithStatusJSON(status, body)
}
