package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/dominoes-go/internal/api/apierr"
	"github.com/mcoot/dominoes-go/internal/api/response"
	"github.com/mcoot/dominoes-go/internal/middleware"
	"github.com/mcoot/dominoes-go/internal/services/command"
)

// Recovery creates panic recovery middleware for the API. Panics answer
// with a failed command body, which also carries the plain error shape.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	_, apiErr := apierr.Describe(nil)
	response.JSON(w, http.StatusInternalServerError, response.CommandResponse{
		Status:  string(command.StatusFailed),
		Message: apiErr.Message,
		Error:   &apiErr,
	})
}
