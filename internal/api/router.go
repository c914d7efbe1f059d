package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/dominoes-go/internal/api/handler"
	"github.com/mcoot/dominoes-go/internal/api/middleware"
	"github.com/mcoot/dominoes-go/internal/api/response"
	sharedmw "github.com/mcoot/dominoes-go/internal/middleware"
	"github.com/mcoot/dominoes-go/internal/realtime"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	"github.com/mcoot/dominoes-go/internal/services/command"
	"github.com/mcoot/dominoes-go/internal/services/game"
	"github.com/mcoot/dominoes-go/internal/services/round"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	Commands        *command.Service
	GameController  *game.Controller
	RoundController *round.Controller
	HubManager      *realtime.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.GameController)
	gameHandler := handler.NewGameHandler(cfg.Commands, cfg.GameController, cfg.RoundController, cfg.HubManager, cfg.Logger)
	roundHandler := handler.NewRoundHandler(cfg.Commands, cfg.RoundController)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me/game", playerHandler.GetMyGame).Methods(http.MethodGet)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Cancel).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/rounds", gameHandler.Rounds).Methods(http.MethodGet)
	games.HandleFunc("/{id}/rounds", gameHandler.CreateRound).Methods(http.MethodPost)
	games.HandleFunc("/{id}/teammate", gameHandler.ChooseTeammate).Methods(http.MethodPost)
	games.HandleFunc("/{id}/bots", gameHandler.AddBot).Methods(http.MethodPost)
	games.HandleFunc("/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{id}/players/{playerId}", gameHandler.RemovePlayer).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/events", gameHandler.Events).Methods(http.MethodGet)
	games.HandleFunc("/{id}/ws", gameHandler.WebSocket).Methods(http.MethodGet)

	// Round routes (all require auth)
	rounds := api.PathPrefix("/rounds").Subrouter()
	rounds.Use(authMiddleware)
	rounds.HandleFunc("/{id}", roundHandler.Get).Methods(http.MethodGet)
	rounds.HandleFunc("/{id}/hand", roundHandler.Hand).Methods(http.MethodGet)
	rounds.HandleFunc("/{id}/playable", roundHandler.Playable).Methods(http.MethodGet)
	rounds.HandleFunc("/{id}/viewport", roundHandler.Viewport).Methods(http.MethodGet)
	rounds.HandleFunc("/{id}/play", roundHandler.Play).Methods(http.MethodPost)
	rounds.HandleFunc("/{id}/pass", roundHandler.Pass).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
