package model

import (
	"slices"
	"time"
)

// Hand holds one player's tiles for one round
type Hand struct {
	GameID   GameID   `json:"gameId"`
	RoundID  RoundID  `json:"roundId"`
	PlayerID PlayerID `json:"playerId"`
	Tiles    []Tile   `json:"hand"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contains reports whether the hand holds the tile, in either orientation
func (h *Hand) Contains(t Tile) bool {
	return IndexOfTile(h.Tiles, t) >= 0
}

// Remove takes the tile out of the hand
func (h *Hand) Remove(t Tile) bool {
	idx := IndexOfTile(h.Tiles, t)
	if idx < 0 {
		return false
	}
	h.Tiles = slices.Delete(slices.Clone(h.Tiles), idx, idx+1)
	return true
}

// Pips is the hand's pip total
func (h *Hand) Pips() int {
	return PipTotal(h.Tiles)
}

// IsEmpty reports whether every tile has been played
func (h *Hand) IsEmpty() bool {
	return len(h.Tiles) == 0
}
