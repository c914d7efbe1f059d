package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a game participant
type Player struct {
	ID          PlayerID `json:"id"`
	DisplayName string   `json:"displayName"`
	IsGuest     bool     `json:"isGuest"` // true for unregistered players
	IsBot       bool     `json:"isBot"`
	BotStrategy string   `json:"botStrategy,omitempty"`

	// CurrentGame points at the unfinished game the player belongs to
	CurrentGame GameID `json:"currentGame,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// RegisteredPlayer extends Player with authentication data
// Stored separately so the password hash never travels with the player
type RegisteredPlayer struct {
	PlayerID     PlayerID  `json:"playerId"`
	Username     string    `json:"username"` // login username (immutable)
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is an authenticated session token
type Session struct {
	Token     string    `json:"token"`
	PlayerID  PlayerID  `json:"playerId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
