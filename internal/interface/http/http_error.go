package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPError carries the status and public code of a failed request.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// badRequest reports a malformed request. The binding error text is the message.
func badRequest(err error) *HTTPError {
	message := "invalid request"
	if err != nil {
		message = err.Error()
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", message, err)
}

// errorEnvelope is the JSON body of every error response.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func envelopeFor(e *HTTPError) errorEnvelope {
	message := e.Message
	if message == "" {
		message = e.Error()
	}
	return errorEnvelope{Error: errorDetail{Code: e.Code, Message: message}}
}

// writeError renders e outside of gin, for handlers wrapping the router.
func writeError(w http.ResponseWriter, e *HTTPError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(envelopeFor(e))
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
