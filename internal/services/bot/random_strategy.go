package bot

import (
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/rules"
)

// RandomStrategy picks any playable tile, and any end for ambiguous ones
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

func (s *RandomStrategy) ChooseTile(round *model.Round, options []rules.TileOption) (model.Tile, model.Placement) {
	playable := playableOptions(options)
	if len(playable) == 0 {
		return model.Tile{}, ""
	}

	choice := playable[s.random.Intn(len(playable))]
	if !choice.Evaluation.Ambiguous {
		return choice.Tile, ""
	}
	if s.random.Intn(2) == 0 {
		return choice.Tile, model.PlacementFront
	}
	return choice.Tile, model.PlacementBack
}
