package rules

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/dealer"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

var players = []model.PlayerID{"p1", "p2", "p3", "p4"}

func tiles(values ...string) []model.Tile {
	out := make([]model.Tile, len(values))
	for i, v := range values {
		out[i] = model.MustParseTile(v)
	}
	return out
}

func newRound(number int, board ...string) *model.Round {
	return &model.Round{
		ID:      "r1",
		GameID:  "g1",
		Number:  number,
		Players: players,
		Board:   tiles(board...),
		Turn:    "p1",
		Status:  model.RoundStatusPlaying,
	}
}

func (s *ServiceSuite) eval(round *model.Round, tile string) Evaluation {
	return s.service.EvaluatePlay(round, "p1", model.MustParseTile(tile))
}

// EvaluatePlay tests

func (s *ServiceSuite) TestFirstRoundEmptyBoardOnlyDoubleSix() {
	round := newRound(1)

	e := s.eval(round, "66")
	s.True(e.Legal)
	s.Equal(model.PlacementBack, e.Placement)
	s.False(e.Swap)

	for _, tile := range model.TileSet() {
		if tile == model.DoubleSix {
			continue
		}
		e := s.service.EvaluatePlay(round, "p1", tile)
		s.False(e.Legal, "tile %s", tile)
		s.ErrorIs(e.Reason, model.ErrIllegalPlay)
	}
}

func (s *ServiceSuite) TestLaterRoundEmptyBoardAnyTile() {
	round := newRound(2)
	for _, tile := range model.TileSet() {
		e := s.service.EvaluatePlay(round, "p1", tile)
		s.True(e.Legal)
		s.Equal(model.PlacementBack, e.Placement)
		s.False(e.Swap)
	}
}

func (s *ServiceSuite) TestNotPlayersTurn() {
	round := newRound(2, "63", "34")
	e := s.service.EvaluatePlay(round, "p2", model.MustParseTile("42"))
	s.False(e.Legal)
	s.ErrorIs(e.Reason, model.ErrNotPlayerTurn)
}

func (s *ServiceSuite) TestRoundNotPlaying() {
	round := newRound(2, "63", "34")
	round.Status = model.RoundStatusBlocked
	e := s.eval(round, "42")
	s.False(e.Legal)
	s.ErrorIs(e.Reason, model.ErrRoundFinished)
}

func (s *ServiceSuite) TestFirstPipMatchesBack() {
	// front 6, back 4: "42" already has its 4 facing the board
	round := newRound(1, "63", "34")
	e := s.eval(round, "42")
	s.True(e.Legal)
	s.Equal(model.PlacementBack, e.Placement)
	s.False(e.Swap)
	s.Equal(model.MustParseTile("42"), e.Oriented(model.MustParseTile("42")))
}

func (s *ServiceSuite) TestSecondPipMatchesBackSwaps() {
	round := newRound(1, "63", "34")
	e := s.eval(round, "24")
	s.True(e.Legal)
	s.Equal(model.PlacementBack, e.Placement)
	s.True(e.Swap)
	s.Equal(model.MustParseTile("42"), e.Oriented(model.MustParseTile("24")))
}

func (s *ServiceSuite) TestSecondPipMatchesFront() {
	round := newRound(1, "63", "34")
	e := s.eval(round, "16")
	s.True(e.Legal)
	s.Equal(model.PlacementFront, e.Placement)
	s.False(e.Swap)
}

func (s *ServiceSuite) TestFirstPipMatchesFrontSwaps() {
	round := newRound(1, "63", "34")
	e := s.eval(round, "61")
	s.True(e.Legal)
	s.Equal(model.PlacementFront, e.Placement)
	s.True(e.Swap)
	s.Equal(model.MustParseTile("16"), e.Oriented(model.MustParseTile("61")))
}

func (s *ServiceSuite) TestNoMatchIsIllegal() {
	round := newRound(1, "63", "34")
	e := s.eval(round, "15")
	s.False(e.Legal)
	s.False(e.Ambiguous)
	s.ErrorIs(e.Reason, model.ErrIllegalPlay)
}

func (s *ServiceSuite) TestTileMatchingBothEndsIsAmbiguous() {
	round := newRound(1, "63")
	e := s.eval(round, "36")
	s.True(e.Ambiguous)
	s.False(e.Legal)
	s.Empty(e.Placement)

	// Both ends showing the same pip
	round = newRound(2, "45", "52", "24")
	e = s.eval(round, "14")
	s.True(e.Ambiguous)
}

func (s *ServiceSuite) TestDoubleIsNeverAmbiguous() {
	// front 3, back 3
	round := newRound(2, "35", "53")
	e := s.eval(round, "33")
	s.False(e.Ambiguous)
	s.True(e.Legal)
	s.Equal(model.PlacementFront, e.Placement)

	round = newRound(2, "25", "53")
	e = s.eval(round, "33")
	s.True(e.Legal)
	s.Equal(model.PlacementBack, e.Placement)
	s.False(e.Swap)
}

func (s *ServiceSuite) TestBackTakesPriorityOverFront() {
	// front 1, back 4
	round := newRound(2, "12", "24")
	s.True(s.eval(round, "41").Ambiguous)

	e := s.eval(round, "54")
	s.Equal(model.PlacementBack, e.Placement)
	s.True(e.Swap)
}

// EvaluateAt tests

func (s *ServiceSuite) TestEvaluateAtResolvesAmbiguousTile() {
	round := newRound(1, "63")
	tile := model.MustParseTile("36")

	front := s.service.EvaluateAt(round, "p1", tile, model.PlacementFront)
	s.True(front.Legal)
	s.False(front.Swap)
	s.Equal(model.MustParseTile("36"), front.Oriented(tile))

	back := s.service.EvaluateAt(round, "p1", tile, model.PlacementBack)
	s.True(back.Legal)
	s.False(back.Swap)
	s.Equal(model.MustParseTile("36"), back.Oriented(tile))
}

func (s *ServiceSuite) TestEvaluateAtWrongEnd() {
	round := newRound(1, "63", "34")
	e := s.service.EvaluateAt(round, "p1", model.MustParseTile("42"), model.PlacementFront)
	s.False(e.Legal)
	s.ErrorIs(e.Reason, model.ErrIllegalPlay)
}

func (s *ServiceSuite) TestEvaluateAtInvalidPlacement() {
	round := newRound(1, "63")
	e := s.service.EvaluateAt(round, "p1", model.MustParseTile("36"), "middle")
	s.ErrorIs(e.Reason, model.ErrInvalidPlacement)
}

func (s *ServiceSuite) TestEvaluateAtEmptyBoardFollowsFirstRoundRule() {
	round := newRound(1)
	s.False(s.service.EvaluateAt(round, "p1", model.MustParseTile("35"), model.PlacementFront).Legal)

	e := s.service.EvaluateAt(round, "p1", model.DoubleSix, model.PlacementFront)
	s.True(e.Legal)
	s.Equal(model.PlacementBack, e.Placement)
}

// ApplyPlay tests

func (s *ServiceSuite) TestApplyPlayFirstTileSetsAnchor() {
	round := newRound(1)
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("66", "12")}

	ended, err := s.service.ApplyPlay(round, hand, model.DoubleSix, s.eval(round, "66"))
	s.Require().NoError(err)

	s.False(ended)
	s.Equal(tiles("66"), round.Board)
	s.Require().NotNil(round.StartingDomino)
	s.Equal(model.DoubleSix, *round.StartingDomino)
	s.Equal(model.PlayerID("p2"), round.Turn)
	s.Equal(tiles("12"), hand.Tiles)
}

func (s *ServiceSuite) TestApplyPlayStoresSwappedTileAtBack() {
	round := newRound(1, "63", "34")
	round.PassCount = 2
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("24", "00")}
	tile := model.MustParseTile("24")

	_, err := s.service.ApplyPlay(round, hand, tile, s.eval(round, "24"))
	s.Require().NoError(err)

	s.Equal([]string{"63", "34", "42"}, model.FormatTiles(round.Board))
	s.Equal(0, round.PassCount)
}

func (s *ServiceSuite) TestApplyPlayAtFront() {
	round := newRound(1, "63", "34")
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("61", "00")}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("61"), s.eval(round, "61"))
	s.Require().NoError(err)

	s.Equal([]string{"16", "63", "34"}, model.FormatTiles(round.Board))
}

func (s *ServiceSuite) TestApplyPlayLastTileEndsRound() {
	round := newRound(2, "63", "34")
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("42")}

	ended, err := s.service.ApplyPlay(round, hand, model.MustParseTile("42"), s.eval(round, "42"))
	s.Require().NoError(err)

	s.True(ended)
	s.Equal(model.RoundStatusEnded, round.Status)
	s.Equal(model.PlayerID("p1"), round.Winner)
	s.Equal(model.PlayerID("p1"), round.Turn)
	s.Empty(hand.Tiles)
}

func (s *ServiceSuite) TestApplyPlayTileNotInHand() {
	round := newRound(2, "63", "34")
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("00")}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("42"), s.eval(round, "42"))
	s.ErrorIs(err, model.ErrTileNotInHand)
	s.Len(round.Board, 2)
}

func (s *ServiceSuite) TestApplyPlayRejectsIllegalEvaluation() {
	round := newRound(2, "63", "34")
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("15")}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("15"), s.eval(round, "15"))
	s.ErrorIs(err, model.ErrIllegalPlay)
}

func (s *ServiceSuite) TestApplyPlayRejectsBrokenChain() {
	round := newRound(2, "63", "34")
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("15")}
	forged := Evaluation{Legal: true, Placement: model.PlacementBack}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("15"), forged)
	s.ErrorIs(err, model.ErrIllegalPlay)
	s.Equal(tiles("15"), hand.Tiles)
}

func (s *ServiceSuite) TestApplyPlayRejectsForgedOpening() {
	round := newRound(1)
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("15")}
	forged := Evaluation{Legal: true, Placement: model.PlacementBack}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("15"), forged)
	s.ErrorIs(err, model.ErrIllegalPlay)
}

func (s *ServiceSuite) TestApplyPlayOnFinishedRound() {
	round := newRound(2, "63")
	round.Status = model.RoundStatusEnded
	hand := &model.Hand{PlayerID: "p1", Tiles: tiles("31")}

	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("31"), legal(model.PlacementBack, false))
	s.ErrorIs(err, model.ErrRoundFinished)
}

// ApplyPass tests

func (s *ServiceSuite) TestApplyPassAdvancesTurn() {
	round := newRound(2, "63")

	blocked, err := s.service.ApplyPass(round, "p1")
	s.Require().NoError(err)

	s.False(blocked)
	s.Equal(1, round.PassCount)
	s.Equal(model.PlayerID("p2"), round.Turn)
	s.Equal(tiles("63"), round.Board)
}

func (s *ServiceSuite) TestFourPassesBlockRound() {
	round := newRound(2, "63")

	for i, p := range players {
		blocked, err := s.service.ApplyPass(round, p)
		s.Require().NoError(err)
		s.Equal(i == 3, blocked)
	}

	s.Equal(model.RoundStatusBlocked, round.Status)
	s.Equal(4, round.PassCount)
}

func (s *ServiceSuite) TestPlayResetsPassCount() {
	round := newRound(2, "63")
	_, _ = s.service.ApplyPass(round, "p1")
	_, _ = s.service.ApplyPass(round, "p2")
	_, _ = s.service.ApplyPass(round, "p3")

	hand := &model.Hand{PlayerID: "p4", Tiles: tiles("31", "00")}
	e := s.service.EvaluatePlay(round, "p4", model.MustParseTile("31"))
	_, err := s.service.ApplyPlay(round, hand, model.MustParseTile("31"), e)
	s.Require().NoError(err)

	s.Equal(0, round.PassCount)
	s.Equal(model.PlayerID("p1"), round.Turn)
}

func (s *ServiceSuite) TestApplyPassWrongTurn() {
	round := newRound(2, "63")
	_, err := s.service.ApplyPass(round, "p3")
	s.ErrorIs(err, model.ErrNotPlayerTurn)
	s.Equal(0, round.PassCount)
}

func (s *ServiceSuite) TestHasLegalPlay() {
	round := newRound(2, "63")
	s.True(s.service.HasLegalPlay(round, &model.Hand{PlayerID: "p1", Tiles: tiles("00", "36")}))
	s.False(s.service.HasLegalPlay(round, &model.Hand{PlayerID: "p1", Tiles: tiles("00", "12")}))
}

// Full round play-outs

func (s *ServiceSuite) TestRandomPlayoutsKeepChainInvariant() {
	d := dealer.New(random.New())
	for range 200 {
		deal := d.Deal()
		round := newRound(1)
		round.Turn = players[deal.StartingIndex]
		hands := make(map[model.PlayerID]*model.Hand)
		for i, p := range players {
			hands[p] = &model.Hand{PlayerID: p, Tiles: deal.Hands[i]}
		}

		for round.Status == model.RoundStatusPlaying {
			hand := hands[round.Turn]
			played := false
			for _, opt := range s.service.Playable(round, hand) {
				e := opt.Evaluation
				if e.Ambiguous {
					e = s.service.EvaluateAt(round, hand.PlayerID, opt.Tile, model.PlacementFront)
				}
				if !e.Legal {
					continue
				}
				_, err := s.service.ApplyPlay(round, hand, opt.Tile, e)
				s.Require().NoError(err)
				played = true
				break
			}
			if !played {
				_, err := s.service.ApplyPass(round, hand.PlayerID)
				s.Require().NoError(err)
			}
		}

		s.Require().NotNil(round.StartingDomino)
		s.Equal(model.DoubleSix, *round.StartingDomino)
		for i := 1; i < len(round.Board); i++ {
			s.Equal(round.Board[i-1].Right, round.Board[i].Left, "board %v", round.Board)
		}
		total := len(round.Board)
		for _, h := range hands {
			total += len(h.Tiles)
		}
		s.Equal(model.TileCount, total)
	}
}
