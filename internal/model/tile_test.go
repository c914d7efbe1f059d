package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tile
		wantErr bool
	}{
		{name: "double six", input: "66", want: Tile{Left: 6, Right: 6}},
		{name: "left pip first", input: "42", want: Tile{Left: 4, Right: 2}},
		{name: "blank", input: "00", want: Tile{}},
		{name: "surrounding space", input: " 35 ", want: Tile{Left: 3, Right: 5}},
		{name: "pip too high", input: "47", wantErr: true},
		{name: "too short", input: "4", wantErr: true},
		{name: "too long", input: "421", wantErr: true},
		{name: "not digits", input: "a1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTile(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTileStringRoundTripsWireForm(t *testing.T) {
	for _, tile := range TileSet() {
		parsed, err := ParseTile(tile.String())
		require.NoError(t, err)
		assert.Equal(t, tile, parsed)
	}
}

func TestTileSetIsCompleteAndUnique(t *testing.T) {
	tiles := TileSet()
	require.Len(t, tiles, TileCount)

	doubles := 0
	for i, a := range tiles {
		if a.IsDouble() {
			doubles++
		}
		for j, b := range tiles {
			if i != j {
				assert.False(t, a.Same(b), "duplicate tile %s", a)
			}
		}
	}
	assert.Equal(t, 7, doubles)
	assert.Equal(t, 168, PipTotal(tiles))
}

func TestTileSetReturnsCopy(t *testing.T) {
	tiles := TileSet()
	tiles[0] = Tile{}
	assert.Equal(t, DoubleSix, TileSet()[0])
}

func TestTileIdentityIgnoresOrientation(t *testing.T) {
	a := MustParseTile("42")
	b := MustParseTile("24")

	assert.True(t, a.Same(b))
	assert.Equal(t, b, a.Reversed())
	assert.Equal(t, a, b.Canonical())
	assert.False(t, a.Same(MustParseTile("43")))
}

func TestTileJSONUsesTwoCharacterForm(t *testing.T) {
	data, err := json.Marshal([]Tile{MustParseTile("63"), MustParseTile("34")})
	require.NoError(t, err)
	assert.JSONEq(t, `["63","34"]`, string(data))

	var tiles []Tile
	require.NoError(t, json.Unmarshal([]byte(`["05","50"]`), &tiles))
	assert.Equal(t, []Tile{{Left: 0, Right: 5}, {Left: 5, Right: 0}}, tiles)

	assert.Error(t, json.Unmarshal([]byte(`["7"]`), &tiles))
}

func TestHandRemoveMatchesEitherOrientation(t *testing.T) {
	hand := &Hand{Tiles: []Tile{MustParseTile("35"), MustParseTile("66")}}

	assert.True(t, hand.Contains(MustParseTile("53")))
	assert.True(t, hand.Remove(MustParseTile("53")))
	assert.Equal(t, []Tile{DoubleSix}, hand.Tiles)
	assert.False(t, hand.Remove(MustParseTile("35")))
	assert.Equal(t, 12, hand.Pips())
}

func TestTurnOrderAlternatesTeams(t *testing.T) {
	game := &Game{
		Players:        []PlayerID{"a", "b", "c", "d"},
		TeamOnePlayers: []PlayerID{"a", "c"},
		TeamTwoPlayers: []PlayerID{"b", "d"},
	}

	order, err := game.TurnOrder()
	require.NoError(t, err)
	assert.Equal(t, []PlayerID{"a", "b", "c", "d"}, order)

	rotated := RotateTo(order, "c")
	assert.Equal(t, []PlayerID{"c", "d", "a", "b"}, rotated)
	for i := range rotated {
		next := rotated[(i+1)%len(rotated)]
		assert.NotEqual(t, game.TeamOf(rotated[i]), game.TeamOf(next))
	}
}

func TestTurnOrderRequiresTwoTeamsOfTwo(t *testing.T) {
	game := &Game{
		Players:        []PlayerID{"a", "b", "c", "d"},
		TeamOnePlayers: []PlayerID{"a", "b", "c"},
		TeamTwoPlayers: []PlayerID{"d"},
	}
	_, err := game.TurnOrder()
	assert.ErrorIs(t, err, ErrTeamsIncomplete)

	game.TeamOnePlayers = []PlayerID{"a", "b"}
	game.TeamTwoPlayers = []PlayerID{"b", "d"}
	assert.False(t, game.TeamsComplete())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindStaleCommand, KindOf(ErrRoundFinished))
	assert.Equal(t, KindNotFound, KindOf(ErrGameNotFound))
	assert.Equal(t, KindPreconditionFailed, KindOf(ErrInsufficientPlayers))
	assert.Equal(t, KindInvalidCommand, KindOf(ErrNotPlayerTurn))
	assert.Equal(t, KindInvalidCommand, KindOf(ErrInvalidTile))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
