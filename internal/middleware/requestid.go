package middleware

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type requestInfoKey struct{}

// requestInfo is shared by every layer handling one request. Inner layers
// fill in the player once the session is known.
type requestInfo struct {
	id string

	mu       sync.Mutex
	playerID string
}

// RequestID tags each request with an id, reusing a well-formed one the
// client sent
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		info := &requestInfo{id: id}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info)))
	})
}

// GetRequestID returns the request id, or empty outside RequestID
func GetRequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		return info.id
	}
	return ""
}

// SetPlayerID records the authenticated player for the request log line
func SetPlayerID(ctx context.Context, playerID string) {
	info, ok := ctx.Value(requestInfoKey{}).(*requestInfo)
	if !ok {
		return
	}
	info.mu.Lock()
	info.playerID = playerID
	info.mu.Unlock()
}

// GetPlayerID returns the player recorded by SetPlayerID
func GetPlayerID(ctx context.Context) string {
	info, ok := ctx.Value(requestInfoKey{}).(*requestInfo)
	if !ok {
		return ""
	}
	info.mu.Lock()
	defer info.mu.Unlock()
	return info.playerID
}
