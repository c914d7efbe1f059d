package dealer

import (
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
)

// Deal is the outcome of shuffling and splitting the tile set
type Deal struct {
	Hands [model.PlayersPerGame][]model.Tile
	// StartingIndex is the hand holding the double-six
	StartingIndex int
}

// Service shuffles and deals the tile set
type Service struct {
	random random.Random
}

// New creates a new dealer
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// Deal shuffles the catalog and splits it into four contiguous hands of
// seven, in shuffle order
func (s *Service) Deal() Deal {
	tiles := model.TileSet()
	random.Shuffle(s.random, len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})

	var deal Deal
	for i := range deal.Hands {
		deal.Hands[i] = tiles[i*model.HandSize : (i+1)*model.HandSize : (i+1)*model.HandSize]
		if model.IndexOfTile(deal.Hands[i], model.DoubleSix) >= 0 {
			deal.StartingIndex = i
		}
	}
	return deal
}
