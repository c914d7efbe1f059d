package handler

import (
	"net/http"
	"slices"

	"github.com/gorilla/mux"

	"github.com/mcoot/dominoes-go/internal/api/middleware"
	"github.com/mcoot/dominoes-go/internal/api/request"
	"github.com/mcoot/dominoes-go/internal/api/response"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/command"
	"github.com/mcoot/dominoes-go/internal/services/round"
)

// RoundHandler handles round queries, plays and passes
type RoundHandler struct {
	commands        *command.Service
	roundController *round.Controller
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(commands *command.Service, roundController *round.Controller) *RoundHandler {
	return &RoundHandler{
		commands:        commands,
		roundController: roundController,
	}
}

func roundID(r *http.Request) model.RoundID {
	return model.RoundID(mux.Vars(r)["id"])
}

// Get handles GET /api/v1/rounds/{id}
func (h *RoundHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	rnd, err := h.roundController.GetRound(r.Context(), roundID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if !slices.Contains(rnd.Players, player.ID) {
		WriteError(w, model.ErrNotInGame)
		return
	}
	response.JSON(w, http.StatusOK, rnd)
}

// Hand handles GET /api/v1/rounds/{id}/hand
func (h *RoundHandler) Hand(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	hand, err := h.roundController.GetHand(r.Context(), roundID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, hand)
}

// Playable handles GET /api/v1/rounds/{id}/playable
func (h *RoundHandler) Playable(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	options, err := h.roundController.Playable(r.Context(), roundID(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, options)
}

// Viewport handles GET /api/v1/rounds/{id}/viewport
func (h *RoundHandler) Viewport(w http.ResponseWriter, r *http.Request) {
	window, err := h.roundController.Viewport(r.Context(), roundID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, window)
}

// Play handles POST /api/v1/rounds/{id}/play
func (h *RoundHandler) Play(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.PlayTileRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Tile == "" {
		WriteError(w, NewInvalidRequestError("tile is required"))
		return
	}
	tile, err := model.ParseTile(req.Tile)
	if err != nil {
		WriteError(w, err)
		return
	}
	placement, err := model.ParsePlacement(req.Placement)
	if err != nil {
		WriteError(w, err)
		return
	}

	res := h.commands.PlayTile(r.Context(), round.PlayRequest{
		PlayerID:  player.ID,
		RoundID:   roundID(r),
		Tile:      tile,
		Placement: placement,
	})
	response.Command(w, res, http.StatusOK)
}

// Pass handles POST /api/v1/rounds/{id}/pass
func (h *RoundHandler) Pass(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.PassRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res := h.commands.PassTurn(r.Context(), round.PassRequest{
		PlayerID:     player.ID,
		RoundID:      roundID(r),
		NextPlayerID: model.PlayerID(req.NextPlayerID),
	})
	response.Command(w, res, http.StatusOK)
}
