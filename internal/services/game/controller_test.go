package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dominoes-go/internal/dependencies/mocks"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/dealer"
	"github.com/mcoot/dominoes-go/internal/services/scoring"
	"github.com/mcoot/dominoes-go/internal/storage/memory"
	"github.com/mcoot/dominoes-go/internal/storage/storagetest"
	"github.com/mcoot/dominoes-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	publisher  *mocks.MockPublisher
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.publisher = mocks.NewMockPublisher()
	s.controller = NewController(
		s.storage,
		dealer.New(s.random),
		scoring.New(scoring.DefaultTargetScore),
		s.publisher,
		DefaultConfig(),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.ctx = context.Background()

	for _, id := range []model.PlayerID{"p1", "p2", "p3", "p4", "p5"} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: id, DisplayName: string(id)}))
	}
}

// createFullGame creates a public game owned by p1 and fills it with p2..p4
func (s *ControllerSuite) createFullGame() *model.Game {
	game, err := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.Require().NoError(err)
	for _, id := range []model.PlayerID{"p2", "p3", "p4"} {
		game, err = s.controller.JoinGameByID(s.ctx, game.ID, id)
		s.Require().NoError(err)
	}
	return game
}

// startedGame returns a PLAYING game. With the all-zero random source the
// deal is fixed: teams are [p1 p2] and [p3 p4], p4 holds the double six.
func (s *ControllerSuite) startedGame() (*model.Game, *model.Round) {
	game := s.createFullGame()
	game, round, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.Require().NoError(err)
	return game, round
}

func (s *ControllerSuite) playerGame(id model.PlayerID) model.GameID {
	player, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	return player.CurrentGame
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	game, err := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.Require().NoError(err)

	s.Equal(model.GameStatusIdle, game.Status)
	s.Equal(model.PlayerID("p1"), game.Admin)
	s.Equal([]model.PlayerID{"p1"}, game.Players)
	s.Equal([]model.PlayerID{"p1"}, game.TeamOnePlayers)
	s.Empty(game.TeamTwoPlayers)
	s.Empty(game.Token)
	s.Equal(int64(1), game.Version)
	s.Equal(game.ID, s.playerGame("p1"))
	s.Len(s.publisher.OfType(model.EventGameUpdated), 1)
}

func (s *ControllerSuite) TestCreatePrivateGameHasToken() {
	s.random.QueueString("privategame1", "XYZ234")

	game, err := s.controller.CreateGame(s.ctx, "p1", model.GameTypePrivate)
	s.Require().NoError(err)

	s.Equal(model.GameID("g_privategame1"), game.ID)
	s.Equal("XYZ234", game.Token)

	byToken, err := s.storage.GetGameByToken(s.ctx, "XYZ234")
	s.Require().NoError(err)
	s.Equal(game.ID, byToken.ID)
}

func (s *ControllerSuite) TestCreateGameDefaultsToPrivate() {
	game, err := s.controller.CreateGame(s.ctx, "p1", "")
	s.Require().NoError(err)
	s.Equal(model.GameTypePrivate, game.Type)
	s.Len(game.Token, TokenLength)
}

func (s *ControllerSuite) TestCreateGameRejectsUnknownType() {
	_, err := s.controller.CreateGame(s.ctx, "p1", "SECRET")
	s.ErrorIs(err, model.ErrInvalidGameType)
}

func (s *ControllerSuite) TestCreateGameUnknownPlayer() {
	_, err := s.controller.CreateGame(s.ctx, "ghost", model.GameTypePublic)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestCreateGameWhileInAnotherGame() {
	_, err := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.Require().NoError(err)

	_, err = s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.ErrorIs(err, model.ErrAlreadyInGame)
}

// Join tests

func (s *ControllerSuite) TestJoinGameByToken() {
	s.random.QueueString("privategame1", "XYZ234")
	_, err := s.controller.CreateGame(s.ctx, "p1", model.GameTypePrivate)
	s.Require().NoError(err)

	game, err := s.controller.JoinGame(s.ctx, " xyz234 ", "p2")
	s.Require().NoError(err)

	s.Equal([]model.PlayerID{"p1", "p2"}, game.Players)
	s.Equal(game.ID, s.playerGame("p2"))
}

func (s *ControllerSuite) TestJoinGameInvalidToken() {
	_, err := s.controller.JoinGame(s.ctx, "NOPE00", "p2")
	s.ErrorIs(err, model.ErrInvalidToken)
}

func (s *ControllerSuite) TestJoinGameTwiceIsNoop() {
	game, _ := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	_, err := s.controller.JoinGameByID(s.ctx, game.ID, "p2")
	s.Require().NoError(err)

	again, err := s.controller.JoinGameByID(s.ctx, game.ID, "p2")
	s.Require().NoError(err)
	s.Len(again.Players, 2)
	s.Equal(int64(2), again.Version)
}

func (s *ControllerSuite) TestJoinFullGame() {
	game := s.createFullGame()

	_, err := s.controller.JoinGameByID(s.ctx, game.ID, "p5")
	s.ErrorIs(err, model.ErrGameFull)
}

func (s *ControllerSuite) TestJoinStartedGame() {
	game, _ := s.startedGame()

	_, err := s.controller.JoinGameByID(s.ctx, game.ID, "p5")
	s.ErrorIs(err, model.ErrGameNotIdle)
}

func (s *ControllerSuite) TestJoinPublicGamePicksOldest() {
	older, _ := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.clock.Advance(time.Minute)
	_, _ = s.controller.CreateGame(s.ctx, "p2", model.GameTypePublic)

	game, err := s.controller.JoinPublicGame(s.ctx, "p3")
	s.Require().NoError(err)
	s.Equal(older.ID, game.ID)
}

func (s *ControllerSuite) TestJoinPublicGameSkipsPrivate() {
	_, _ = s.controller.CreateGame(s.ctx, "p1", model.GameTypePrivate)

	_, err := s.controller.JoinPublicGame(s.ctx, "p2")
	s.ErrorIs(err, model.ErrNoGamesAvailable)
}

func (s *ControllerSuite) TestJoinPublicGameNoneAvailable() {
	_, err := s.controller.JoinPublicGame(s.ctx, "p1")
	s.ErrorIs(err, model.ErrNoGamesAvailable)
}

func (s *ControllerSuite) TestJoinAfterTeammateChosenGoesToTeamTwo() {
	game, _ := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	_, _ = s.controller.JoinGameByID(s.ctx, game.ID, "p2")
	_, err := s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p2")
	s.Require().NoError(err)

	game, err = s.controller.JoinGameByID(s.ctx, game.ID, "p3")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p3"}, game.TeamTwoPlayers)
}

// ChooseTeammate tests

func (s *ControllerSuite) TestChooseTeammate() {
	game := s.createFullGame()

	game, err := s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p3")
	s.Require().NoError(err)

	s.Equal([]model.PlayerID{"p1", "p3"}, game.TeamOnePlayers)
	s.Equal([]model.PlayerID{"p2", "p4"}, game.TeamTwoPlayers)
	s.True(game.TeamsComplete())
}

func (s *ControllerSuite) TestChooseTeammateErrors() {
	game := s.createFullGame()

	_, err := s.controller.ChooseTeammate(s.ctx, game.ID, "p2", "p3")
	s.ErrorIs(err, model.ErrNotAdmin)

	_, err = s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p1")
	s.ErrorIs(err, model.ErrTeammateIsSelf)

	_, err = s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p5")
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ControllerSuite) TestChooseTeammateAfterStart() {
	game, _ := s.startedGame()

	_, err := s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p3")
	s.ErrorIs(err, model.ErrGameNotIdle)
}

// RemovePlayer tests

func (s *ControllerSuite) TestAdminRemovesPlayer() {
	game := s.createFullGame()
	s.publisher.Reset()

	game, err := s.controller.RemovePlayer(s.ctx, game.ID, "p1", "p3")
	s.Require().NoError(err)

	s.False(game.HasPlayer("p3"))
	s.Empty(s.playerGame("p3"))

	left := s.publisher.OfType(model.EventPlayerLeft)
	s.Require().Len(left, 1)
	s.Equal(model.PlayerLeftPayload{PlayerID: "p3", Kicked: true}, left[0].Payload)
}

func (s *ControllerSuite) TestPlayerRemovesSelf() {
	game := s.createFullGame()
	_, _ = s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p2")

	game, err := s.controller.RemovePlayer(s.ctx, game.ID, "p2", "p2")
	s.Require().NoError(err)

	s.Equal([]model.PlayerID{"p1"}, game.TeamOnePlayers)
	s.Equal([]model.PlayerID{"p3", "p4"}, game.TeamTwoPlayers)
}

func (s *ControllerSuite) TestRemovePlayerErrors() {
	game := s.createFullGame()

	_, err := s.controller.RemovePlayer(s.ctx, game.ID, "p2", "p3")
	s.ErrorIs(err, model.ErrNotAdmin)

	_, err = s.controller.RemovePlayer(s.ctx, game.ID, "p1", "p1")
	s.ErrorIs(err, model.ErrCannotRemoveAdmin)

	_, err = s.controller.RemovePlayer(s.ctx, game.ID, "p1", "p5")
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ControllerSuite) TestRemovePlayerFromFinishedGameIsNoop() {
	game, _ := s.startedGame()
	game.Status = model.GameStatusFinished
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.controller.RemovePlayer(s.ctx, game.ID, "p1", "p3")
	s.Require().NoError(err)
	s.True(got.HasPlayer("p3"))
}

func (s *ControllerSuite) TestRemovedBotIsDeleted() {
	game, _ := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "bot-1", IsBot: true}))
	_, err := s.controller.JoinGameByID(s.ctx, game.ID, "bot-1")
	s.Require().NoError(err)

	_, err = s.controller.RemovePlayer(s.ctx, game.ID, "p1", "bot-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "bot-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameAutoFillsTeamsAndDeals() {
	game, round := s.startedGame()

	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal([]model.PlayerID{"p1", "p2"}, game.TeamOnePlayers)
	s.Equal([]model.PlayerID{"p3", "p4"}, game.TeamTwoPlayers)
	s.Equal([]model.RoundID{round.ID}, game.Rounds)

	// Turn order alternates teams and starts with the holder of 66
	s.Equal(model.PlayerID("p4"), round.StartingPlayer)
	s.Equal(model.PlayerID("p4"), round.Turn)
	s.Equal([]model.PlayerID{"p4", "p1", "p3", "p2"}, round.Players)
	s.Equal(round.Players, game.Players)
	s.Equal(1, round.Number)
	s.Empty(round.Board)

	hands, err := s.storage.GetHandsForRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Require().Len(hands, 4)
	total := 0
	for _, hand := range hands {
		s.Len(hand.Tiles, model.HandSize)
		total += hand.Pips()
	}
	s.Equal(168, total)

	starter, err := s.storage.GetHand(s.ctx, round.ID, "p4")
	s.Require().NoError(err)
	s.True(starter.Contains(model.DoubleSix))
}

func (s *ControllerSuite) TestStartGamePublishesHandsToOwnersOnly() {
	s.createFullGame()
	s.publisher.Reset()
	game, _ := s.controller.CurrentGame(s.ctx, "p1")

	_, _, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.Require().NoError(err)

	hands := s.publisher.OfType(model.EventHandUpdated)
	s.Require().Len(hands, 4)
	for _, e := range hands {
		s.Equal(e.Payload.(*model.Hand).PlayerID, e.Recipient)
	}
	s.Len(s.publisher.OfType(model.EventRoundUpdated), 1)
}

func (s *ControllerSuite) TestStartGameRespectsChosenTeams() {
	game := s.createFullGame()
	_, _ = s.controller.ChooseTeammate(s.ctx, game.ID, "p1", "p4")

	game, _, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1", "p4"}, game.TeamOnePlayers)
	s.Equal([]model.PlayerID{"p2", "p3"}, game.TeamTwoPlayers)
}

func (s *ControllerSuite) TestStartGameNeedsFourPlayers() {
	game, _ := s.controller.CreateGame(s.ctx, "p1", model.GameTypePublic)
	_, _ = s.controller.JoinGameByID(s.ctx, game.ID, "p2")

	_, _, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *ControllerSuite) TestStartGameAdminOnly() {
	game := s.createFullGame()

	_, _, err := s.controller.StartGame(s.ctx, game.ID, "p2")
	s.ErrorIs(err, model.ErrNotAdmin)
}

func (s *ControllerSuite) TestStartGameTwice() {
	game, _ := s.startedGame()

	_, _, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.ErrorIs(err, model.ErrGameNotIdle)
}

// CreateRound tests

func (s *ControllerSuite) TestCreateRoundWhileRoundInProgress() {
	game, _ := s.startedGame()

	_, err := s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrRoundInProgress)
}

func (s *ControllerSuite) TestCreateRoundOnIdleGame() {
	game := s.createFullGame()

	_, err := s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotPlaying)
}

func (s *ControllerSuite) TestCreateRoundOnFinishedGameIsStale() {
	game, _ := s.startedGame()
	game.Status = model.GameStatusFinished
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	_, err := s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameFinished)
	s.Equal(model.KindStaleCommand, model.KindOf(err))
}

func (s *ControllerSuite) TestCreateRoundAfterScoredRound() {
	s.controller.cfg.AutoNextRound = false
	game, round := s.startedGame()
	s.endRound(round, "p3", model.RoundStatusEnded)

	_, next, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Nil(next)

	next, err = s.controller.CreateRound(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(2, next.Number)
	s.Equal(model.PlayerID("p3"), next.StartingPlayer)
	s.Equal([]model.PlayerID{"p3", "p2", "p4", "p1"}, next.Players)
}

// CompleteRound tests

// endRound marks the round finished and empties the winner's hand
func (s *ControllerSuite) endRound(round *model.Round, winner model.PlayerID, status model.RoundStatus) {
	round, err := s.storage.GetRound(s.ctx, round.ID)
	s.Require().NoError(err)
	round.Status = status
	if status == model.RoundStatusEnded {
		round.Winner = winner
		hand, err := s.storage.GetHand(s.ctx, round.ID, winner)
		s.Require().NoError(err)
		hand.Tiles = []model.Tile{}
		s.Require().NoError(s.storage.SaveHands(s.ctx, hand))
	}
	s.Require().NoError(s.storage.SaveRound(s.ctx, round))
}

func (s *ControllerSuite) TestCompleteRoundEmptiedHand() {
	_, round := s.startedGame()
	// p3 is on team two; team one (p1, p2) still holds its full hands
	p1, _ := s.storage.GetHand(s.ctx, round.ID, "p1")
	p2, _ := s.storage.GetHand(s.ctx, round.ID, "p2")
	s.endRound(round, "p3", model.RoundStatusEnded)

	game, next, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)

	s.Equal(p1.Pips()+p2.Pips(), game.TeamTwoScore)
	s.Equal(0, game.TeamOneScore)
	s.Equal([]model.Team{model.TeamTwo}, game.Score)
	s.Equal(model.PlayerID("p3"), game.LastRoundWinner)

	scored, err := s.storage.GetRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Equal(model.TeamTwo, scored.WinningTeam)
	s.Equal(game.TeamTwoScore, scored.PointsWon)

	s.Require().NotNil(next)
	s.Equal(2, next.Number)
	s.Equal(model.PlayerID("p3"), next.Turn)
	s.Equal([]model.RoundID{round.ID, next.ID}, game.Rounds)
}

func (s *ControllerSuite) TestCompleteRoundTwiceIsNoop() {
	_, round := s.startedGame()
	s.endRound(round, "p3", model.RoundStatusEnded)

	first, _, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)

	second, next, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)
	s.Nil(next)
	s.Equal(first.TeamTwoScore, second.TeamTwoScore)
	s.Len(second.Score, 1)
}

func (s *ControllerSuite) TestCompleteRoundInProgress() {
	_, round := s.startedGame()

	_, _, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.ErrorIs(err, model.ErrRoundInProgress)
}

func (s *ControllerSuite) TestCompleteBlockedRound() {
	_, round := s.startedGame()
	s.endRound(round, "", model.RoundStatusBlocked)

	game, next, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)

	// Fixed deal: p1 holds 61 pips and p2 33 (team one 94) against
	// p3 50 and p4 24 (team two 74)
	s.Equal(94, game.TeamTwoScore)
	s.Equal(0, game.TeamOneScore)
	s.Equal([]model.Team{model.TeamTwo}, game.Score)
	// p4 holds the fewest pips and starts the next round
	s.Equal(model.PlayerID("p4"), game.LastRoundWinner)
	s.Require().NotNil(next)
	s.Equal(model.PlayerID("p4"), next.StartingPlayer)
}

func (s *ControllerSuite) TestCompleteRoundFinishesGame() {
	game, round := s.startedGame()
	game.TeamTwoScore = 90
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.endRound(round, "p3", model.RoundStatusEnded)

	game, next, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)

	s.Nil(next)
	s.Equal(model.GameStatusFinished, game.Status)
	s.Equal(model.TeamTwo, game.WinningTeam)
	s.Equal([]model.PlayerID{"p3", "p4"}, game.Winners)
	s.Empty(s.playerGame("p1"))

	_, err = s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameFinished)
}

func (s *ControllerSuite) TestCreateRoundScoresRoundWhoseCompletionFailed() {
	game, round := s.startedGame()
	failing := storagetest.NewFailingStorage(s.storage)
	s.controller.storage = failing
	s.endRound(round, "p3", model.RoundStatusEnded)

	failing.FailSaveGame(1)
	_, _, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().ErrorIs(err, storagetest.ErrInjected)

	stuck, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, stuck.Status)
	s.Empty(stuck.Score)

	next, err := s.controller.CreateRound(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(2, next.Number)
	s.Equal(model.PlayerID("p3"), next.StartingPlayer)

	scored, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal([]model.Team{model.TeamTwo}, scored.Score)
	s.Equal([]model.RoundID{round.ID, next.ID}, scored.Rounds)

	// The round dealt by the failed attempt was never adopted
	rounds, err := s.controller.GetRounds(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal(next.ID, rounds[1].ID)

	// Now scored, so a second call is back to the usual check
	_, err = s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrRoundInProgress)
}

func (s *ControllerSuite) TestCreateRoundRetryCanFinishGame() {
	game, round := s.startedGame()
	game.TeamTwoScore = 90
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	failing := storagetest.NewFailingStorage(s.storage)
	s.controller.storage = failing
	s.endRound(round, "p3", model.RoundStatusEnded)

	failing.FailSaveGame(1)
	_, _, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().Error(err)

	_, err = s.controller.CreateRound(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameFinished)

	finished, err := s.storage.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusFinished, finished.Status)
	s.Equal(model.TeamTwo, finished.WinningTeam)
}

// CancelGame tests

func (s *ControllerSuite) TestCancelGameDeletesEverything() {
	game, round := s.startedGame()
	s.publisher.Reset()

	s.Require().NoError(s.controller.CancelGame(s.ctx, game.ID, "p1"))

	_, err := s.storage.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	_, err = s.storage.GetRound(s.ctx, round.ID)
	s.ErrorIs(err, model.ErrRoundNotFound)
	_, err = s.storage.GetHand(s.ctx, round.ID, "p1")
	s.ErrorIs(err, model.ErrHandNotFound)

	for _, id := range []model.PlayerID{"p1", "p2", "p3", "p4"} {
		s.Empty(s.playerGame(id))
	}
	s.Len(s.publisher.OfType(model.EventGameCancelled), 1)
}

func (s *ControllerSuite) TestCancelGameAdminOnly() {
	game := s.createFullGame()

	err := s.controller.CancelGame(s.ctx, game.ID, "p2")
	s.ErrorIs(err, model.ErrNotAdmin)
}

// CurrentGame tests

func (s *ControllerSuite) TestCurrentGame() {
	game := s.createFullGame()

	current, err := s.controller.CurrentGame(s.ctx, "p3")
	s.Require().NoError(err)
	s.Equal(game.ID, current.ID)

	_, err = s.controller.CurrentGame(s.ctx, "p5")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestPlayerCanJoinAfterGameCancelled() {
	game := s.createFullGame()
	s.Require().NoError(s.controller.CancelGame(s.ctx, game.ID, "p1"))

	_, err := s.controller.CreateGame(s.ctx, "p2", model.GameTypePublic)
	s.NoError(err)
}

// GetRounds tests

func (s *ControllerSuite) TestGetRounds() {
	game, round := s.startedGame()
	s.endRound(round, "p3", model.RoundStatusEnded)
	_, _, err := s.controller.CompleteRound(s.ctx, round.ID)
	s.Require().NoError(err)

	rounds, err := s.controller.GetRounds(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Require().Len(rounds, 2)
	s.Equal(1, rounds[0].Number)
	s.Equal(2, rounds[1].Number)

	_, err = s.controller.GetRounds(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}
