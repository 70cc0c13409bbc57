// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"leadconvert/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the standard success-acknowledgement format.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Message sends a 200 OK response with a {message} body.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

// HandleError maps domain errors to HTTP responses.
// Typed *apperr.Error values map to their Kind's status code; internal errors
// return a generic message so no details leak to the client. Untyped errors
// default to 400 Bad Request. Returns true if an error was handled.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		message := domainErr.Message
		if domainErr.Kind == apperr.KindInternal {
			message = "something went wrong"
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{Message: message})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	return true
}
