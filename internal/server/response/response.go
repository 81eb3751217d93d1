// Package response provides standardized HTTP response structures and helpers
// for the catalog API server. All API responses follow a consistent format
// with a data field for successful responses and an error field for failures.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/techmarket/pkg/errors"
)

// Response represents the standardized API response structure.
// All endpoints return this format for consistency.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error represents an API error with code, message, and optional details.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Success creates a successful response with data.
func Success(data any) Response {
	return Response{
		Data:  data,
		Error: nil,
	}
}

// Fail creates an error response.
func Fail(code, message, details string) Response {
	return Response{
		Data: nil,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding errors are ignored as headers are already sent
	_ = json.NewEncoder(w).Encode(resp)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Success(data))
}

// Created writes a successful response with 201 status.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Success(data))
}

// Partial writes data together with an error describing what is missing
// from it, with 200 status. Used when a form loaded but some relationship
// options could not be refreshed.
func Partial(w http.ResponseWriter, data any, code, message string) {
	JSON(w, http.StatusOK, Response{Data: data, Error: &Error{Code: code, Message: message}})
}

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusBadRequest, Fail("BAD_REQUEST", message, details))
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusNotFound, Fail("NOT_FOUND", message, details))
}

// UnprocessableEntity writes a 422 error response for input that is well
// formed but violates catalog rules.
func UnprocessableEntity(w http.ResponseWriter, message, details string) {
	JSON(w, http.StatusUnprocessableEntity, Fail("VALIDATION_FAILED", message, details))
}

// InternalError writes a 500 error response.
func InternalError(w http.ResponseWriter, _ error) {
	// The error itself is logged by the handler, never exposed to clients
	JSON(w, http.StatusInternalServerError, Fail(
		"INTERNAL_ERROR",
		"Internal server error",
		"An unexpected error occurred",
	))
}

// BadGateway writes a 502 error response for failures of the remote catalog.
func BadGateway(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadGateway, Fail(
		"REMOTE_UNAVAILABLE",
		"Remote catalog unavailable",
		message,
	))
}

// ServiceUnavailable writes a 503 error response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	JSON(w, http.StatusServiceUnavailable, Fail(
		"SERVICE_UNAVAILABLE",
		"Service unavailable",
		message,
	))
}

// ErrorFromType maps typed errors, wrapped or not, to HTTP responses.
func ErrorFromType(w http.ResponseWriter, err error) {
	var (
		validation *errors.ValidationError
		config     *errors.ConfigError
		api        *errors.APIError
	)
	switch {
	case errors.As(err, &validation):
		UnprocessableEntity(w, validation.Error(), "")
	case errors.IsAlreadyExists(err):
		JSON(w, http.StatusConflict, Fail("ALREADY_EXISTS", "Resource already exists", err.Error()))
	case errors.IsTimeout(err):
		JSON(w, http.StatusGatewayTimeout, Fail("TIMEOUT", "Request timed out", err.Error()))
	case errors.As(err, &api):
		BadGateway(w, api.Error())
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.As(err, &config):
		ServiceUnavailable(w, config.Error())
	default:
		InternalError(w, err)
	}
}
