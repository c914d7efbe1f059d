package response

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/dominoes-go/internal/services/command"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Command writes a command result. okStatus is used when it succeeded.
func Command(w http.ResponseWriter, res command.Result, okStatus int) {
	status, body := CommandFromResult(res, okStatus)
	JSON(w, status, body)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
