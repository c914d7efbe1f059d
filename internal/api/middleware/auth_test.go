package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/auth"
)

type fakeSessions map[string]model.PlayerID

func (f fakeSessions) ValidateSession(_ context.Context, token string) (*auth.Session, error) {
	id, ok := f[token]
	if !ok {
		return nil, auth.ErrInvalidSession
	}
	return &auth.Session{Player: model.Player{ID: id}}, nil
}

func TestAuthTokenSources(t *testing.T) {
	sessions := fakeSessions{"tok": "alice"}

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
	}{
		{"bearer", func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/games", nil)
			r.Header.Set("Authorization", "Bearer tok")
			return r
		}, http.StatusOK},
		{"cookie", func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/games", nil)
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
			return r
		}, http.StatusOK},
		{"query on get", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/games/g1/events?token=tok", nil)
		}, http.StatusOK},
		{"query on post is ignored", func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/games?token=tok", nil)
		}, http.StatusUnauthorized},
		{"unknown token", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/games/g1", nil)
			r.Header.Set("Authorization", "Bearer nope")
			return r
		}, http.StatusUnauthorized},
		{"missing", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/games/g1", nil)
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *model.Player
			handler := Auth(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = MustGetPlayer(r.Context())
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, tt.req())

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, model.PlayerID("alice"), seen.ID)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestMustGetPlayerPanicsWithoutAuth(t *testing.T) {
	assert.Panics(t, func() { MustGetPlayer(context.Background()) })
	assert.Nil(t, GetSession(context.Background()))
}
