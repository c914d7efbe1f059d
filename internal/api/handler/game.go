package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/dominoes-go/internal/api/middleware"
	"github.com/mcoot/dominoes-go/internal/api/request"
	"github.com/mcoot/dominoes-go/internal/api/response"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/realtime"
	"github.com/mcoot/dominoes-go/internal/services/command"
	"github.com/mcoot/dominoes-go/internal/services/events"
	"github.com/mcoot/dominoes-go/internal/services/game"
	"github.com/mcoot/dominoes-go/internal/services/round"
)

// GameHandler handles game lifecycle endpoints and the game event streams
type GameHandler struct {
	commands        *command.Service
	gameController  *game.Controller
	roundController *round.Controller
	hubManager      *realtime.HubManager
	logger          *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	commands *command.Service,
	gameController *game.Controller,
	roundController *round.Controller,
	hubManager *realtime.HubManager,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		commands:        commands,
		gameController:  gameController,
		roundController: roundController,
		hubManager:      hubManager,
		logger:          logger,
	}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateGameRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	gameType := model.GameType(strings.ToUpper(req.Type))
	if gameType == "" {
		gameType = model.GameTypePrivate
	}

	response.Command(w, h.commands.CreateGame(r.Context(), player.ID, gameType), http.StatusCreated)
}

// Join handles POST /api/v1/games/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.JoinGameRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if req.Token == "" {
		response.Command(w, h.commands.JoinPublicGame(r.Context(), player.ID), http.StatusOK)
		return
	}
	response.Command(w, h.commands.JoinGame(r.Context(), strings.ToUpper(req.Token), player.ID), http.StatusOK)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.memberGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, g)
}

// Rounds handles GET /api/v1/games/{id}/rounds
func (h *GameHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	g, err := h.memberGame(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	rounds, err := h.gameController.GetRounds(r.Context(), g.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rounds)
}

// ChooseTeammate handles POST /api/v1/games/{id}/teammate
func (h *GameHandler) ChooseTeammate(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ChooseTeammateRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("playerId is required"))
		return
	}

	res := h.commands.ChooseTeammate(r.Context(), gameID(r), player.ID, model.PlayerID(req.PlayerID))
	response.Command(w, res, http.StatusOK)
}

// AddBot handles POST /api/v1/games/{id}/bots
func (h *GameHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AddBotRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	response.Command(w, h.commands.AddBot(r.Context(), gameID(r), player.ID, req.Strategy), http.StatusCreated)
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.Command(w, h.commands.StartGame(r.Context(), gameID(r), player.ID), http.StatusOK)
}

// CreateRound handles POST /api/v1/games/{id}/rounds
func (h *GameHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	if _, err := h.memberGame(r); err != nil {
		WriteError(w, err)
		return
	}
	response.Command(w, h.commands.CreateRound(r.Context(), gameID(r)), http.StatusCreated)
}

// Cancel handles DELETE /api/v1/games/{id}
func (h *GameHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.Command(w, h.commands.CancelGame(r.Context(), gameID(r), player.ID), http.StatusOK)
}

// RemovePlayer handles DELETE /api/v1/games/{id}/players/{playerId}
func (h *GameHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	target := model.PlayerID(mux.Vars(r)["playerId"])
	response.Command(w, h.commands.RemovePlayer(r.Context(), gameID(r), player.ID, target), http.StatusOK)
}

// Events handles GET /api/v1/games/{id}/events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	initial, err := h.snapshot(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(gameID(r))
	realtime.ServeSSE(w, r, hub, player.ID, initial)
}

// WebSocket handles GET /api/v1/games/{id}/ws
func (h *GameHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	initial, err := h.snapshot(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(gameID(r))
	realtime.ServeWS(w, r, hub, player.ID, initial)
}

// memberGame loads the requested game and checks the caller plays in it
func (h *GameHandler) memberGame(r *http.Request) (*model.Game, error) {
	player := middleware.MustGetPlayer(r.Context())
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		return nil, err
	}
	if !g.HasPlayer(player.ID) {
		return nil, model.ErrNotInGame
	}
	return g, nil
}

// snapshot is the current state a new subscriber starts from: the game,
// its current round and the caller's hand in that round
func (h *GameHandler) snapshot(r *http.Request) ([]realtime.Message, error) {
	player := middleware.MustGetPlayer(r.Context())
	g, err := h.memberGame(r)
	if err != nil {
		return nil, err
	}

	snapshot := []model.Event{events.GameUpdated(g, g.UpdatedAt)}
	if id := g.CurrentRound(); id != "" {
		rnd, hand, err := h.roundAndHand(r.Context(), id, player.ID)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, events.RoundUpdated(rnd, rnd.UpdatedAt))
		if hand != nil {
			snapshot = append(snapshot, events.HandUpdated(hand, hand.UpdatedAt))
		}
	}

	messages := make([]realtime.Message, 0, len(snapshot))
	for _, event := range snapshot {
		message, err := realtime.Encode(event)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (h *GameHandler) roundAndHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Round, *model.Hand, error) {
	rnd, err := h.roundController.GetRound(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	hand, err := h.roundController.GetHand(ctx, roundID, playerID)
	if errors.Is(err, model.ErrNotInGame) || errors.Is(err, model.ErrHandNotFound) {
		return rnd, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return rnd, hand, nil
}
