// Package apierror turns any error raised while serving a request into a
// status code and a uniform {"success":false,"message":...} body.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

const (
	msgResourceNotFound = "Resource not found"
	msgDuplicate        = "Duplicate field value entered"
	msgServerError      = "Server Error"
)

// Error is an explicit handler decision: a status and the message to show.
type Error struct {
	Status  int
	Message string
	Err     error
}

// New returns an Error with status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap returns an Error that also keeps the underlying cause for logging.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Response is the failure body. Message is a string, or a list of strings
// for validation failures.
type Response struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

// Normalize maps err to a status and failure body.
//
// Unclassified errors become 500 with their own text as the message.
func Normalize(err error) (int, Response) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status, Response{Message: apiErr.Message}
	}

	if errors.Is(err, common.ErrMalformedID) {
		return http.StatusNotFound, Response{Message: msgResourceNotFound}
	}

	if errors.Is(err, common.ErrDuplicate) {
		return http.StatusBadRequest, Response{Message: msgDuplicate}
	}

	var verr *common.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, Response{Message: verr.Messages()}
	}

	msg := msgServerError
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return http.StatusInternalServerError, Response{Message: msg}
}

// Abort normalizes err, writes it as the response and stops the handler
// chain. It returns the status written.
func Abort(c *gin.Context, err error) int {
	status, body := Normalize(err)
	c.AbortWithStatusJSON(status, body)
	return status
}
