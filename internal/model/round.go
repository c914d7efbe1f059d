package model

import (
	"slices"
	"time"
)

// RoundID uniquely identifies a round
type RoundID string

// RoundStatus represents the phase of a round
type RoundStatus string

const (
	RoundStatusPlaying RoundStatus = "PLAYING"
	RoundStatusEnded   RoundStatus = "ENDED"   // A player emptied their hand
	RoundStatusBlocked RoundStatus = "BLOCKED" // Every player passed in succession
)

// Placement selects which end of the board a tile is added to
type Placement string

const (
	PlacementFront Placement = "front"
	PlacementBack  Placement = "back"
)

// ParsePlacement accepts "front", "back" or empty
func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case PlacementFront, PlacementBack, "":
		return Placement(s), nil
	default:
		return "", ErrInvalidPlacement
	}
}

// Round is one deal-to-termination cycle
type Round struct {
	ID     RoundID `json:"id"`
	GameID GameID  `json:"gameId"`
	Number int     `json:"number"` // 1-based within the game

	// Players is the turn order for this round, starting player first
	Players []PlayerID `json:"players"`

	Board     []Tile      `json:"board"`
	Turn      PlayerID    `json:"turn"`
	PassCount int         `json:"passCount"`
	Status    RoundStatus `json:"status"`

	StartingPlayer PlayerID `json:"startingPlayer"`
	// StartingDomino anchors the viewport; nil until the first play
	StartingDomino *Tile `json:"startingDomino,omitempty"`

	Winner      PlayerID `json:"winner,omitempty"`
	WinningTeam Team     `json:"winningTeam,omitempty"`
	PointsWon   int      `json:"pointsWon"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the round has ended or blocked
func (r *Round) IsTerminal() bool {
	return r.Status == RoundStatusEnded || r.Status == RoundStatusBlocked
}

// IsFirst reports whether this is the game's first round
func (r *Round) IsFirst() bool {
	return r.Number == 1
}

// Front returns the exposed pip at the front of the board
func (r *Round) Front() (int, bool) {
	if len(r.Board) == 0 {
		return 0, false
	}
	return r.Board[0].Left, true
}

// Back returns the exposed pip at the back of the board
func (r *Round) Back() (int, bool) {
	if len(r.Board) == 0 {
		return 0, false
	}
	return r.Board[len(r.Board)-1].Right, true
}

// NextPlayer returns the player after the given one in turn order
func (r *Round) NextPlayer(current PlayerID) PlayerID {
	idx := slices.Index(r.Players, current)
	if idx < 0 || len(r.Players) == 0 {
		return ""
	}
	return r.Players[(idx+1)%len(r.Players)]
}

// AnchorIndex returns the board index of the starting domino, or -1
func (r *Round) AnchorIndex() int {
	if r.StartingDomino == nil {
		return -1
	}
	return IndexOfTile(r.Board, *r.StartingDomino)
}
