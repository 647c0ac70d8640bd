package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/errors"
	"github.com/classic-cipher-go/internal/trace"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// RespondError writes a JSON error response with logging
func RespondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	var ok bool
	if appErr, ok = err.(*errors.AppError); !ok {
		appErr = errors.NewInternalWithCause("Internal server error", err)
	}

	evt := log.Error().Str("req_id", trace.GetRequestID(c.Request.Context()))
	if appErr.Cause != nil {
		evt = evt.Err(appErr.Cause)
	}
	evt.Msg(appErr.Message)

	c.JSON(appErr.HTTPStatus, APIResponse{
		Code: int(appErr.Code),
		Msg:  appErr.Message,
	})
}

// RespondAPIError writes an API-style error response (code in body, HTTP 200).
// The admin frontend reads the code field and ignores the HTTP status.
func RespondAPIError(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Code: code,
		Msg:  message,
	})
}

// RespondSuccess writes a JSON success response
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Code: 0,
		Data: data,
	})
}

// RespondSuccessMsg writes a JSON success response with a message
func RespondSuccessMsg(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Code: 0,
		Msg:  message,
	})
}

// engineError maps a cipher engine failure to its API error: a bad key
// is unprocessable, a missed chunk deadline is a gateway timeout, and
// anything else (unknown kind, unknown mode, empty stage list) is a bad
// request.
func engineError(err error) *errors.AppError {
	var keyErr *cipher.InvalidKeyError
	if stderrors.As(err, &keyErr) {
		return errors.NewInvalidKeyWithCause(err.Error(), err)
	}
	if stderrors.Is(err, cipher.ErrChunkWait) {
		return errors.NewTimeoutWithCause("cipher run exceeded the chunk wait deadline", err)
	}
	return errors.NewBadRequestWithCause(err.Error(), err)
}
