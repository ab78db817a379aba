package ws

import (
	"errors"
	"net/http"
)

// Transport errors carry the HTTP status they map to, so handlers can render
// any Room failure with one helper. Messages are the exact strings clients
// are written against.

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

type UnauthorizedError struct{ Msg string }

func (e *UnauthorizedError) Error() string { return e.Msg }

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

var (
	errNameTaken          = &ConflictError{Msg: "name taken"}
	errSubmissionsClosed  = &ConflictError{Msg: "submissions closed"}
	errGiftFieldsRequired = &ValidationError{Msg: "product_url and hint required"}
	errPlayerNotFound     = &NotFoundError{Msg: "player not found"}
	errHostTokenRequired  = &UnauthorizedError{Msg: "host token required"}
	errInvalidHostToken   = &UnauthorizedError{Msg: "invalid host token"}
	errAlreadyStarted     = &ConflictError{Msg: "game already started"}
	errNoPlayers          = &ValidationError{Msg: "no players"}
	errGiftsMissing       = &ValidationError{Msg: "all players must submit gifts"}
)

// Status maps a Room error to its HTTP status code.
func Status(err error) int {
	var (
		notFound     *NotFoundError
		unauthorized *UnauthorizedError
		validation   *ValidationError
		conflict     *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
