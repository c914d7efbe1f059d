package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/dominoes-go/internal/dependencies/mocks"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/rules"
)

func options(round *model.Round, player model.PlayerID, tiles ...string) []rules.TileOption {
	hand := &model.Hand{PlayerID: player, Tiles: model.MustParseTiles(tiles...)}
	return rules.New().Playable(round, hand)
}

func roundWithBoard(board ...string) *model.Round {
	return &model.Round{
		Number:  2,
		Players: []model.PlayerID{"bot", "p2", "p3", "p4"},
		Board:   model.MustParseTiles(board...),
		Turn:    "bot",
		Status:  model.RoundStatusPlaying,
	}
}

func TestFirstStrategyPicksHeaviestPlayable(t *testing.T) {
	round := roundWithBoard("31", "12")
	opts := options(round, "bot", "66", "32", "25", "11")

	tile, placement := NewFirstStrategy().ChooseTile(round, opts)

	// 66 is heavier but does not fit; 25 outweighs the ambiguous 32
	assert.Equal(t, model.MustParseTile("25"), tile)
	assert.Empty(t, placement)
}

func TestFirstStrategyPlacesAmbiguousTileAtBack(t *testing.T) {
	round := roundWithBoard("31", "14")
	opts := options(round, "bot", "34", "41")

	tile, placement := NewFirstStrategy().ChooseTile(round, opts)

	assert.Equal(t, model.MustParseTile("34"), tile)
	assert.Equal(t, model.PlacementBack, placement)
}

func TestFirstStrategyNothingPlayable(t *testing.T) {
	round := roundWithBoard("31", "12")
	opts := options(round, "bot", "66", "55")

	tile, placement := NewFirstStrategy().ChooseTile(round, opts)

	assert.Equal(t, model.Tile{}, tile)
	assert.Empty(t, placement)
}

func TestRandomStrategyUsesRandomSource(t *testing.T) {
	round := roundWithBoard("31", "14")
	opts := options(round, "bot", "66", "34", "45", "13")
	rnd := mocks.NewMockRandom()
	// Playable options are 34 (ambiguous), 45 and 13; pick 34, then front
	rnd.QueueIntn(0, 0)

	tile, placement := NewRandomStrategy(rnd).ChooseTile(round, opts)

	assert.Equal(t, model.MustParseTile("34"), tile)
	assert.Equal(t, model.PlacementFront, placement)
}

func TestRandomStrategyPlainTile(t *testing.T) {
	round := roundWithBoard("31", "14")
	opts := options(round, "bot", "34", "45", "13")
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(2)

	tile, placement := NewRandomStrategy(rnd).ChooseTile(round, opts)

	assert.Equal(t, model.MustParseTile("13"), tile)
	assert.Empty(t, placement)
}
