package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Document snapshots, always carrying the full current document
	EventGameUpdated  EventType = "game_updated"
	EventRoundUpdated EventType = "round_updated"
	EventHandUpdated  EventType = "hand_updated"

	// Lifecycle events
	EventGameCancelled EventType = "game_cancelled"
	EventPlayerLeft    EventType = "player_left"
)

// Event is published to game subscribers after a mutation
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"gameId"`
	// Recipient restricts delivery to one player; empty means everyone
	Recipient PlayerID `json:"recipient,omitempty"`
	Payload   any      `json:"payload"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID PlayerID `json:"playerId"`
	Kicked   bool     `json:"kicked"`
}
