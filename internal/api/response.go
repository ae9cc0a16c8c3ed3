package api

import (
	"encoding/json"
	"errors"
	"net/http"

	wserr "github.com/amterp/webslide/internal/errors"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var notFound *wserr.NotFoundError
	var alreadyExists *wserr.AlreadyExistsError
	var validation *wserr.ValidationError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &alreadyExists):
		status = http.StatusConflict
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	}

	JSON(w, status, ErrorResponse{Error: err.Error()})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}

// Conflict writes a 409 for a request the deck's current shape refuses.
func Conflict(w http.ResponseWriter, message string) {
	JSON(w, http.StatusConflict, ErrorResponse{Error: message})
}

// NotFound writes a 404 error for the given resource.
func NotFound(w http.ResponseWriter, resource, id string) {
	Error(w, &wserr.NotFoundError{Resource: resource, ID: id})
}
