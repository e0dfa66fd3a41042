package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports a malformed or incomplete request.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports an absent cart, customer or order.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// OutOfStock reports a line item whose requested quantity exceeds
// availability. The message names the offending item so the client can
// re-render the cart.
func OutOfStock(title, size string) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf("%s of size %s is out of stock", title, size), nil)
}

// Conflict reports an idempotency violation or an update that would put an
// order into an unreachable flag combination.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Gateway reports a failed call to the payment provider.
func Gateway(err error) *Error {
	return New(http.StatusBadGateway, "Payment gateway request failed", err)
}

// Inconsistency reports a settlement that references an order or inventory
// unit that no longer resolves. Always logged by the caller, never swallowed.
func Inconsistency(message string) *Error {
	return New(http.StatusInternalServerError, message, nil)
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// HandleError writes an error response for plain net/http handlers.
func HandleError(w http.ResponseWriter, err error) {
	var appErr *Error
	if e, ok := err.(*Error); ok {
		appErr = e
	} else {
		appErr = New(http.StatusInternalServerError, "Internal server error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Code)
	w.Write([]byte(appErr.JSON()))
}

// Error middleware for Gin
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if e, ok := err.(*Error); ok {
				appErr = e
			} else {
				appErr = New(http.StatusInternalServerError, "Internal server error", err)
			}

			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
