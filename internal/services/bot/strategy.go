package bot

import (
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/rules"
)

// Strategy defines how a bot picks its next tile
type Strategy interface {
	// ChooseTile picks one of the playable options. The placement matters
	// only for ambiguous tiles.
	ChooseTile(round *model.Round, options []rules.TileOption) (model.Tile, model.Placement)
}

// playableOptions keeps the options that can be played, ambiguous included
func playableOptions(options []rules.TileOption) []rules.TileOption {
	var out []rules.TileOption
	for _, option := range options {
		if option.Evaluation.Legal || option.Evaluation.Ambiguous {
			out = append(out, option)
		}
	}
	return out
}

// FirstStrategy dumps the heaviest playable tile first. Ambiguous tiles go
// on the back.
type FirstStrategy struct{}

// NewFirstStrategy creates a new FirstStrategy
func NewFirstStrategy() *FirstStrategy {
	return &FirstStrategy{}
}

func (s *FirstStrategy) ChooseTile(round *model.Round, options []rules.TileOption) (model.Tile, model.Placement) {
	playable := playableOptions(options)
	if len(playable) == 0 {
		return model.Tile{}, ""
	}

	best := playable[0]
	for _, option := range playable[1:] {
		if option.Tile.Pips() > best.Tile.Pips() {
			best = option
		}
	}
	if best.Evaluation.Ambiguous {
		return best.Tile, model.PlacementBack
	}
	return best.Tile, ""
}
