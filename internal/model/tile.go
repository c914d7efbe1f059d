package model

import (
	"fmt"
	"strings"
)

const (
	// MaxPip is the highest pip value on a double-six set
	MaxPip = 6
	// TileCount is the number of unique tiles in a double-six set
	TileCount = 28
	// HandSize is the number of tiles dealt to each player
	HandSize = 7
)

// Tile is a domino. Left and Right only carry meaning once the tile is on
// the board: Left faces the front of the chain, Right faces the back.
// Two tiles are the same catalog tile when they hold the same pair of pips
// in either order.
type Tile struct {
	Left  int
	Right int
}

// DoubleSix opens the first round of every game
var DoubleSix = Tile{Left: 6, Right: 6}

// NewTile validates both pips and returns the tile
func NewTile(left, right int) (Tile, error) {
	if left < 0 || left > MaxPip || right < 0 || right > MaxPip {
		return Tile{}, fmt.Errorf("%w: pips %d,%d out of range", ErrInvalidTile, left, right)
	}
	return Tile{Left: left, Right: right}, nil
}

// ParseTile decodes the two-digit wire form, left pip first ("42")
func ParseTile(s string) (Tile, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	left, right := int(s[0])-'0', int(s[1])-'0'
	if left < 0 || left > MaxPip || right < 0 || right > MaxPip {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, s)
	}
	return Tile{Left: left, Right: right}, nil
}

// MustParseTile is ParseTile for literals known to be valid
func MustParseTile(s string) Tile {
	t, err := ParseTile(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTiles decodes a list of wire tiles
func ParseTiles(values []string) ([]Tile, error) {
	tiles := make([]Tile, 0, len(values))
	for _, v := range values {
		t, err := ParseTile(v)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

// MustParseTiles is ParseTiles for literals known to be valid
func MustParseTiles(values ...string) []Tile {
	tiles, err := ParseTiles(values)
	if err != nil {
		panic(err)
	}
	return tiles
}

// FormatTiles encodes tiles to their wire form
func FormatTiles(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

// String returns the two-digit wire form
func (t Tile) String() string {
	return string([]byte{byte('0' + t.Left), byte('0' + t.Right)})
}

// IsDouble reports whether both pips are equal
func (t Tile) IsDouble() bool {
	return t.Left == t.Right
}

// Pips is the sum of both pip values
func (t Tile) Pips() int {
	return t.Left + t.Right
}

// Has reports whether either side shows the given pip
func (t Tile) Has(pip int) bool {
	return t.Left == pip || t.Right == pip
}

// Reversed swaps the orientation
func (t Tile) Reversed() Tile {
	return Tile{Left: t.Right, Right: t.Left}
}

// Same reports whether both tiles are the same catalog tile
func (t Tile) Same(other Tile) bool {
	return t == other || t == other.Reversed()
}

// Canonical orients the tile with the higher pip on the left
func (t Tile) Canonical() Tile {
	if t.Left < t.Right {
		return t.Reversed()
	}
	return t
}

// MarshalText keeps the two-character wire form in every encoding
func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes the two-character wire form
func (t *Tile) UnmarshalText(b []byte) error {
	parsed, err := ParseTile(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TileSet returns a fresh copy of the 28-tile catalog, highest tiles first
func TileSet() []Tile {
	tiles := make([]Tile, 0, TileCount)
	for hi := MaxPip; hi >= 0; hi-- {
		for lo := hi; lo >= 0; lo-- {
			tiles = append(tiles, Tile{Left: hi, Right: lo})
		}
	}
	return tiles
}

// PipTotal sums the pips of every tile
func PipTotal(tiles []Tile) int {
	total := 0
	for _, t := range tiles {
		total += t.Pips()
	}
	return total
}

// IndexOfTile finds a tile by catalog identity, or -1
func IndexOfTile(tiles []Tile, t Tile) int {
	for i, candidate := range tiles {
		if candidate.Same(t) {
			return i
		}
	}
	return -1
}
