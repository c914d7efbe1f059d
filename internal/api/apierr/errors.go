package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidCommand     = "INVALID_COMMAND"
	CodeNotFound           = "NOT_FOUND"
	CodePreconditionFailed = "PRECONDITION_FAILED"
	CodeStaleCommand       = "STALE_COMMAND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotAdmin           = "NOT_ADMIN"
	CodeNotInGame          = "NOT_IN_GAME"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeIllegalPlay        = "ILLEGAL_PLAY"
	CodeTileNotInHand      = "TILE_NOT_IN_HAND"
	CodeMustPlay           = "MUST_PLAY"
	CodeInvalidTile        = "INVALID_TILE"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	status, apiError := Describe(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: apiError})
}

// Describe returns the HTTP status and error body for an error
func Describe(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Errors with their own status
	switch {
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeNotAdmin, "Only the game admin can do that"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodeNotInGame, "Player not in game!"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusConflict, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrIllegalPlay):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeIllegalPlay, "That tile does not fit there"}}
	case errors.Is(err, model.ErrTileNotInHand):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeTileNotInHand, "That tile is not in your hand"}}
	case errors.Is(err, model.ErrMustPlay):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeMustPlay, "You have a tile to play"}}
	case errors.Is(err, model.ErrInvalidTile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTile, "Tiles are two pips from 0 to 6, like 65"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrPasswordTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	}

	// Everything else by kind
	switch model.KindOf(err) {
	case model.KindInvalidCommand:
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCommand, err.Error()}}
	case model.KindNotFound:
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, err.Error()}}
	case model.KindPreconditionFailed:
		return &httpError{http.StatusPreconditionFailed, APIError{CodePreconditionFailed, err.Error()}}
	case model.KindStaleCommand:
		return &httpError{http.StatusConflict, APIError{CodeStaleCommand, err.Error()}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
