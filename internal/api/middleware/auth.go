package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/dominoes-go/internal/api/apierr"
	"github.com/mcoot/dominoes-go/internal/middleware"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/auth"
)

// SessionCookie is the cookie a browser client keeps its token in
const SessionCookie = "session"

type contextKey string

const (
	playerContextKey  contextKey = "player"
	sessionContextKey contextKey = "session"
)

// tokenSources are tried in order. EventSource and WebSocket clients in a
// browser cannot set headers, so GET requests may pass ?token=.
var tokenSources = []func(*http.Request) string{
	bearerToken,
	cookieToken,
	queryToken,
}

// SessionValidator resolves a session token
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*auth.Session, error)
}

// Auth resolves the caller's session and puts the player on the context.
// Requests without a valid session never reach the game handlers.
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := sessions.ValidateSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			middleware.SetPlayerID(r.Context(), string(session.Player.ID))

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			ctx = context.WithValue(ctx, playerContextKey, &session.Player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	for _, source := range tokenSources {
		if token := source(r); token != "" {
			return token
		}
	}
	return ""
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func queryToken(r *http.Request) string {
	if r.Method != http.MethodGet {
		return ""
	}
	return r.URL.Query().Get("token")
}

// GetPlayer returns the authenticated player from the request context
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetPlayer returns the authenticated player. Only handlers mounted
// behind Auth may call it.
func MustGetPlayer(ctx context.Context) *model.Player {
	player := GetPlayer(ctx)
	if player == nil {
		panic("api: no player on request context")
	}
	return player
}
