package scoring

import (
	"github.com/mcoot/dominoes-go/internal/model"
)

// DefaultTargetScore ends the game once a team reaches it
const DefaultTargetScore = 100

// RoundResult is the scored outcome of a finished round
type RoundResult struct {
	// Winner starts the next round
	Winner      model.PlayerID     `json:"winner"`
	WinningTeam model.Team         `json:"winningTeam"`
	PointsWon   int                `json:"pointsWon"`
	TeamPips    map[model.Team]int `json:"teamPips"`
}

// Service computes round points and detects the end of a game
type Service struct {
	targetScore int
}

// New creates a scoring service. A non-positive target uses the default.
func New(targetScore int) *Service {
	if targetScore <= 0 {
		targetScore = DefaultTargetScore
	}
	return &Service{targetScore: targetScore}
}

// TargetScore returns the score that finishes a game
func (s *Service) TargetScore() int {
	return s.targetScore
}

// TeamPips sums the remaining pips per team
func (s *Service) TeamPips(game *model.Game, hands map[model.PlayerID]*model.Hand) map[model.Team]int {
	totals := map[model.Team]int{model.TeamOne: 0, model.TeamTwo: 0}
	for _, team := range []model.Team{model.TeamOne, model.TeamTwo} {
		for _, id := range game.TeamPlayers(team) {
			if hand, ok := hands[id]; ok {
				totals[team] += hand.Pips()
			}
		}
	}
	return totals
}

// ScoreEmptiedHand awards the emptying player's team every pip still held
// by the opposing team
func (s *Service) ScoreEmptiedHand(game *model.Game, winner model.PlayerID, hands map[model.PlayerID]*model.Hand) RoundResult {
	team := game.TeamOf(winner)
	pips := s.TeamPips(game, hands)
	return RoundResult{
		Winner:      winner,
		WinningTeam: team,
		PointsWon:   pips[team.Opponent()],
		TeamPips:    pips,
	}
}

// ScoreBlocked awards the team holding fewer pips the other team's total.
// The next round is started by whichever single player holds the fewest
// pips, whatever their team. Equal team totals award nothing.
func (s *Service) ScoreBlocked(game *model.Game, hands map[model.PlayerID]*model.Hand) RoundResult {
	pips := s.TeamPips(game, hands)
	result := RoundResult{TeamPips: pips}

	one, two := pips[model.TeamOne], pips[model.TeamTwo]
	switch {
	case one < two:
		result.WinningTeam = model.TeamOne
		result.PointsWon = two
	case two < one:
		result.WinningTeam = model.TeamTwo
		result.PointsWon = one
	}

	fewest := -1
	for _, id := range append(append([]model.PlayerID{}, game.TeamOnePlayers...), game.TeamTwoPlayers...) {
		hand, ok := hands[id]
		if !ok {
			continue
		}
		if fewest < 0 || hand.Pips() < fewest {
			fewest = hand.Pips()
			result.Winner = id
		}
	}
	return result
}

// Apply records a round result on the round and the game
func (s *Service) Apply(game *model.Game, round *model.Round, result RoundResult) {
	round.Winner = result.Winner
	round.WinningTeam = result.WinningTeam
	round.PointsWon = result.PointsWon

	game.AddPoints(result.WinningTeam, result.PointsWon)
	game.Score = append(game.Score, result.WinningTeam)
	game.LastRoundWinner = result.Winner
}

// CheckGameOver finishes the game once either team reaches the target.
// The strictly higher team wins; an exact tie finishes the game with no
// winning team. Reports whether the game is now finished.
func (s *Service) CheckGameOver(game *model.Game) bool {
	if game.TeamOneScore < s.targetScore && game.TeamTwoScore < s.targetScore {
		return false
	}

	game.Status = model.GameStatusFinished
	switch {
	case game.TeamOneScore > game.TeamTwoScore:
		game.WinningTeam = model.TeamOne
	case game.TeamTwoScore > game.TeamOneScore:
		game.WinningTeam = model.TeamTwo
	default:
		game.WinningTeam = model.TeamNone
	}
	game.Winners = append([]model.PlayerID(nil), game.TeamPlayers(game.WinningTeam)...)
	return true
}

// Interface for dependency injection
type ServiceInterface interface {
	TeamPips(game *model.Game, hands map[model.PlayerID]*model.Hand) map[model.Team]int
	ScoreEmptiedHand(game *model.Game, winner model.PlayerID, hands map[model.PlayerID]*model.Hand) RoundResult
	ScoreBlocked(game *model.Game, hands map[model.PlayerID]*model.Hand) RoundResult
	Apply(game *model.Game, round *model.Round, result RoundResult)
	CheckGameOver(game *model.Game) bool
}

var _ ServiceInterface = (*Service)(nil)
