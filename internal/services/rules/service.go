package rules

import (
	"github.com/mcoot/dominoes-go/internal/model"
)

// Evaluation is the verdict on playing one tile against the current board
type Evaluation struct {
	Legal     bool            `json:"legal"`
	Placement model.Placement `json:"placement,omitempty"`
	// Swap means the tile is stored reversed ("42" becomes "24")
	Swap bool `json:"swap"`
	// Ambiguous tiles fit both ends; the player has to pick one
	Ambiguous bool `json:"ambiguous"`
	// Reason explains why a tile is not legal
	Reason error `json:"-"`
}

// Oriented returns the tile as it would be stored on the board
func (e Evaluation) Oriented(tile model.Tile) model.Tile {
	if e.Swap {
		return tile.Reversed()
	}
	return tile
}

func legal(placement model.Placement, swap bool) Evaluation {
	return Evaluation{Legal: true, Placement: placement, Swap: swap}
}

func illegal(reason error) Evaluation {
	return Evaluation{Reason: reason}
}

// TileOption pairs a hand tile with its evaluation
type TileOption struct {
	Tile       model.Tile `json:"tile"`
	Evaluation Evaluation `json:"evaluation"`
}

// Service implements tile legality, orientation and the play/pass state
// transitions of a round. It holds no state; every call works on the
// snapshot it is given.
type Service struct{}

// New creates a new rules service
func New() *Service {
	return &Service{}
}

// checkTurn rejects plays outside of the player's turn or a live round
func checkTurn(round *model.Round, player model.PlayerID) error {
	if round.Status != model.RoundStatusPlaying {
		return model.ErrRoundFinished
	}
	if round.Turn != player {
		return model.ErrNotPlayerTurn
	}
	return nil
}

// EvaluatePlay decides whether and where a tile can be played. Rules apply
// in a fixed order, which doubles as the tie-break for tiles that could
// match more than one way.
func (s *Service) EvaluatePlay(round *model.Round, player model.PlayerID, tile model.Tile) Evaluation {
	if err := checkTurn(round, player); err != nil {
		return illegal(err)
	}

	if len(round.Board) == 0 {
		if !round.IsFirst() || tile.Same(model.DoubleSix) {
			return legal(model.PlacementBack, false)
		}
		return illegal(model.ErrIllegalPlay)
	}

	front, _ := round.Front()
	back, _ := round.Back()
	a, b := tile.Left, tile.Right

	switch {
	case !tile.IsDouble() && tile.Has(front) && tile.Has(back):
		return Evaluation{Ambiguous: true}
	case tile.IsDouble() && a == front:
		return legal(model.PlacementFront, false)
	case tile.IsDouble() && a == back:
		return legal(model.PlacementBack, false)
	case b == back:
		return legal(model.PlacementBack, true)
	case a == back:
		return legal(model.PlacementBack, false)
	case b == front:
		return legal(model.PlacementFront, false)
	case a == front:
		return legal(model.PlacementFront, true)
	default:
		return illegal(model.ErrIllegalPlay)
	}
}

// EvaluateAt decides whether a tile can be played at a chosen end and how
// it must be oriented there. This resolves ambiguous tiles.
func (s *Service) EvaluateAt(round *model.Round, player model.PlayerID, tile model.Tile, placement model.Placement) Evaluation {
	if placement != model.PlacementFront && placement != model.PlacementBack {
		return illegal(model.ErrInvalidPlacement)
	}
	if err := checkTurn(round, player); err != nil {
		return illegal(err)
	}

	// An empty board has one end
	if len(round.Board) == 0 {
		return s.EvaluatePlay(round, player, tile)
	}

	if placement == model.PlacementFront {
		front, _ := round.Front()
		switch front {
		case tile.Right:
			return legal(model.PlacementFront, false)
		case tile.Left:
			return legal(model.PlacementFront, true)
		}
		return illegal(model.ErrIllegalPlay)
	}

	back, _ := round.Back()
	switch back {
	case tile.Left:
		return legal(model.PlacementBack, false)
	case tile.Right:
		return legal(model.PlacementBack, true)
	}
	return illegal(model.ErrIllegalPlay)
}

// Playable evaluates every tile in the hand for its owner
func (s *Service) Playable(round *model.Round, hand *model.Hand) []TileOption {
	options := make([]TileOption, 0, len(hand.Tiles))
	for _, tile := range hand.Tiles {
		options = append(options, TileOption{
			Tile:       tile,
			Evaluation: s.EvaluatePlay(round, hand.PlayerID, tile),
		})
	}
	return options
}

// HasLegalPlay reports whether the hand's owner can play any tile,
// counting ambiguous tiles as playable
func (s *Service) HasLegalPlay(round *model.Round, hand *model.Hand) bool {
	for _, option := range s.Playable(round, hand) {
		if option.Evaluation.Legal || option.Evaluation.Ambiguous {
			return true
		}
	}
	return false
}

// ApplyPlay removes the tile from the hand and adds it to the board as the
// evaluation dictates. It reports whether the hand was emptied, which ends
// the round.
func (s *Service) ApplyPlay(round *model.Round, hand *model.Hand, tile model.Tile, eval Evaluation) (bool, error) {
	if err := checkTurn(round, hand.PlayerID); err != nil {
		return false, err
	}
	if !eval.Legal {
		if eval.Reason != nil {
			return false, eval.Reason
		}
		return false, model.ErrIllegalPlay
	}
	if !hand.Contains(tile) {
		return false, model.ErrTileNotInHand
	}
	if model.IndexOfTile(round.Board, tile) >= 0 {
		return false, model.ErrIllegalPlay
	}

	oriented := eval.Oriented(tile)
	if len(round.Board) == 0 {
		if round.IsFirst() && !tile.Same(model.DoubleSix) {
			return false, model.ErrIllegalPlay
		}
		round.Board = []model.Tile{oriented}
		anchor := oriented
		round.StartingDomino = &anchor
	} else if eval.Placement == model.PlacementFront {
		if front, _ := round.Front(); oriented.Right != front {
			return false, model.ErrIllegalPlay
		}
		round.Board = append([]model.Tile{oriented}, round.Board...)
	} else {
		if back, _ := round.Back(); oriented.Left != back {
			return false, model.ErrIllegalPlay
		}
		round.Board = append(round.Board, oriented)
	}

	hand.Remove(tile)
	round.PassCount = 0

	if hand.IsEmpty() {
		round.Status = model.RoundStatusEnded
		round.Winner = hand.PlayerID
		return true, nil
	}
	round.Turn = round.NextPlayer(hand.PlayerID)
	return false, nil
}

// ApplyPass moves the turn on without touching the board. It reports
// whether every player has now passed in succession, which blocks the
// round.
func (s *Service) ApplyPass(round *model.Round, player model.PlayerID) (bool, error) {
	if err := checkTurn(round, player); err != nil {
		return false, err
	}

	round.PassCount++
	round.Turn = round.NextPlayer(player)

	if round.PassCount >= model.PlayersPerGame {
		round.Status = model.RoundStatusBlocked
		return true, nil
	}
	return false, nil
}

// ServiceInterface for dependency injection
type ServiceInterface interface {
	EvaluatePlay(round *model.Round, player model.PlayerID, tile model.Tile) Evaluation
	EvaluateAt(round *model.Round, player model.PlayerID, tile model.Tile, placement model.Placement) Evaluation
	Playable(round *model.Round, hand *model.Hand) []TileOption
	HasLegalPlay(round *model.Round, hand *model.Hand) bool
	ApplyPlay(round *model.Round, hand *model.Hand, tile model.Tile, eval Evaluation) (bool, error)
	ApplyPass(round *model.Round, player model.PlayerID) (bool, error)
}

var _ ServiceInterface = (*Service)(nil)
