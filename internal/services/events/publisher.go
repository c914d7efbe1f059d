// Package events builds the document snapshots published after every
// mutation and defines where they go.
package events

import (
	"context"
	"time"

	"github.com/mcoot/dominoes-go/internal/model"
)

// Publisher delivers events to game subscribers
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Event) {}

// GameUpdated carries the full game document to every subscriber
func GameUpdated(game *model.Game, at time.Time) model.Event {
	return model.Event{
		Type:      model.EventGameUpdated,
		Timestamp: at,
		GameID:    game.ID,
		Payload:   game,
	}
}

// RoundUpdated carries the full round document to every subscriber
func RoundUpdated(round *model.Round, at time.Time) model.Event {
	return model.Event{
		Type:      model.EventRoundUpdated,
		Timestamp: at,
		GameID:    round.GameID,
		Payload:   round,
	}
}

// HandUpdated carries a hand to its owner only
func HandUpdated(hand *model.Hand, at time.Time) model.Event {
	return model.Event{
		Type:      model.EventHandUpdated,
		Timestamp: at,
		GameID:    hand.GameID,
		Recipient: hand.PlayerID,
		Payload:   hand,
	}
}

// GameCancelled tells subscribers the game no longer exists
func GameCancelled(gameID model.GameID, at time.Time) model.Event {
	return model.Event{
		Type:      model.EventGameCancelled,
		Timestamp: at,
		GameID:    gameID,
		Payload:   map[string]model.GameID{"gameId": gameID},
	}
}

// PlayerLeft tells subscribers a player was removed from the roster
func PlayerLeft(gameID model.GameID, playerID model.PlayerID, kicked bool, at time.Time) model.Event {
	return model.Event{
		Type:      model.EventPlayerLeft,
		Timestamp: at,
		GameID:    gameID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, Kicked: kicked},
	}
}
