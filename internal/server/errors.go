// Package server provides the HTTP REST API for the candidate screening
// platform.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/candidate-screener/internal/screening"
)

// ErrInvalidCredentials indicates a failed admin login.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// HTTPStatus maps service and auth errors onto HTTP status codes.
func HTTPStatus(err error) int {
	var (
		notFound    *screening.NotFoundError
		invalid     *screening.InvalidInputError
		decision    *screening.DecisionError
		state       *screening.StateError
		collab      *screening.CollaboratorError
		credentials *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	case errors.As(err, &decision):
		return http.StatusBadRequest
	case errors.As(err, &state):
		return http.StatusConflict
	case errors.As(err, &collab):
		return http.StatusBadGateway
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
