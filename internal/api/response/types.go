package response

import (
	"net/http"

	"github.com/mcoot/dominoes-go/internal/api/apierr"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	"github.com/mcoot/dominoes-go/internal/services/bot"
	"github.com/mcoot/dominoes-go/internal/services/command"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
	IsBot       bool   `json:"isBot,omitempty"`
	CurrentGame string `json:"currentGame,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
		CurrentGame: string(p.CurrentGame),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"sessionToken"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// CommandResponse is the response for every state-changing game command
type CommandResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	// Ignored is set when the command arrived after its round or game ended
	Ignored    bool             `json:"ignored,omitempty"`
	Message    string           `json:"message"`
	Data       any              `json:"data,omitempty"`
	BotActions []bot.BotAction  `json:"botActions,omitempty"`
	Error      *apierr.APIError `json:"error,omitempty"`
}

// CommandFromResult builds the HTTP status and body for a command result.
// okStatus is used for successful commands.
func CommandFromResult(res command.Result, okStatus int) (int, CommandResponse) {
	resp := CommandResponse{
		Success:    res.OK(),
		Status:     string(res.Status),
		Message:    res.Message,
		Data:       res.Value,
		BotActions: res.BotActions,
	}

	switch res.Status {
	case command.StatusOK:
		return okStatus, resp
	case command.StatusPending:
		return http.StatusAccepted, resp
	case command.StatusIgnored:
		resp.Ignored = true
		resp.Data = nil
		return http.StatusOK, resp
	default:
		status, apiErr := apierr.Describe(res.Err)
		resp.Data = nil
		resp.Error = &apiErr
		return status, resp
	}
}

// Health is the response for the liveness check
type Health struct {
	Status string `json:"status"`
}
