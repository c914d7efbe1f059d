// Package storagetest holds the behaviour every storage backend must share.
// Backend test suites embed Suite and assign Storage in SetupTest.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// Suite is the shared conformance suite
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) newGame(id model.GameID, typ model.GameType, players ...model.PlayerID) *model.Game {
	return &model.Game{
		ID:             id,
		Status:         model.GameStatusIdle,
		Type:           typ,
		Admin:          players[0],
		Players:        players,
		TeamOnePlayers: players[:1],
		TeamTwoPlayers: []model.PlayerID{},
		Rounds:         []model.RoundID{},
		Score:          []model.Team{},
		CreatedAt:      epoch,
		UpdatedAt:      epoch,
	}
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", IsGuest: true, CreatedAt: epoch}

	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	got, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.True(got.IsGuest)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1"}))
	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayerCurrentGame() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	player.CurrentGame = "game-1"
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	got, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), got.CurrentGame)
}

func (s *Suite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	got, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Session tests

func (s *Suite) TestSessionLifecycle() {
	session := &model.Session{Token: "tok", PlayerID: "player-1", CreatedAt: epoch, ExpiresAt: epoch.Add(time.Hour)}
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	got, err := s.Storage.GetSession(s.Ctx, "tok")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)
	s.True(got.ExpiresAt.Equal(epoch.Add(time.Hour)))

	s.Require().NoError(s.Storage.DeleteSession(s.Ctx, "tok"))
	_, err = s.Storage.GetSession(s.Ctx, "tok")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Game tests

func (s *Suite) TestSaveAndGetGame() {
	game := s.newGame("game-1", model.GameTypePrivate, "p1")
	game.Token = "ABC123"
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	got, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusIdle, got.Status)
	s.Equal([]model.PlayerID{"p1"}, got.Players)
	s.Equal("ABC123", got.Token)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestReturnedGameIsACopy() {
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, s.newGame("game-1", model.GameTypePublic, "p1")))

	got, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	got.Players = append(got.Players, "p2")

	again, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Len(again.Players, 1)
}

func (s *Suite) TestGetGameByToken() {
	game := s.newGame("game-1", model.GameTypePrivate, "p1")
	game.Token = "ABC123"
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))

	got, err := s.Storage.GetGameByToken(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), got.ID)

	_, err = s.Storage.GetGameByToken(s.Ctx, "ZZZZZZ")
	s.ErrorIs(err, model.ErrInvalidToken)

	_, err = s.Storage.GetGameByToken(s.Ctx, "")
	s.ErrorIs(err, model.ErrInvalidToken)
}

func (s *Suite) TestListJoinableGames() {
	older := s.newGame("game-old", model.GameTypePublic, "p1")
	newer := s.newGame("game-new", model.GameTypePublic, "p2")
	newer.CreatedAt = epoch.Add(time.Minute)
	private := s.newGame("game-private", model.GameTypePrivate, "p3")
	private.Token = "PRIV01"
	full := s.newGame("game-full", model.GameTypePublic, "p4", "p5", "p6", "p7")
	started := s.newGame("game-started", model.GameTypePublic, "p8")
	started.Status = model.GameStatusPlaying

	for _, g := range []*model.Game{newer, older, private, full, started} {
		s.Require().NoError(s.Storage.SaveGame(s.Ctx, g))
	}

	games, err := s.Storage.ListJoinableGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-old"), games[0].ID)
	s.Equal(model.GameID("game-new"), games[1].ID)

	// Filling a game takes it off the list
	older.Players = []model.PlayerID{"p1", "a", "b", "c"}
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, older))
	games, err = s.Storage.ListJoinableGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-new"), games[0].ID)
}

func (s *Suite) TestDeleteGame() {
	game := s.newGame("game-1", model.GameTypePublic, "p1")
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, game))
	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, "game-1"))

	_, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.Storage.ListJoinableGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(games)

	s.NoError(s.Storage.DeleteGame(s.Ctx, "game-1"))
}

// Round tests

func (s *Suite) TestSaveAndGetRound() {
	anchor := model.DoubleSix
	round := &model.Round{
		ID:             "round-1",
		GameID:         "game-1",
		Number:         1,
		Players:        []model.PlayerID{"a", "b", "c", "d"},
		Board:          []model.Tile{model.MustParseTile("66"), model.MustParseTile("63")},
		Turn:           "c",
		PassCount:      1,
		Status:         model.RoundStatusPlaying,
		StartingPlayer: "a",
		StartingDomino: &anchor,
	}
	s.Require().NoError(s.Storage.SaveRound(s.Ctx, round))

	got, err := s.Storage.GetRound(s.Ctx, "round-1")
	s.Require().NoError(err)
	s.Equal([]string{"66", "63"}, model.FormatTiles(got.Board))
	s.Equal(model.PlayerID("c"), got.Turn)
	s.Equal(1, got.PassCount)
	s.Require().NotNil(got.StartingDomino)
	s.Equal(model.DoubleSix, *got.StartingDomino)
}

func (s *Suite) TestGetRoundNotFound() {
	_, err := s.Storage.GetRound(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrRoundNotFound)
}

func (s *Suite) TestRoundsForGameOrderedByNumber() {
	for _, r := range []*model.Round{
		{ID: "r3", GameID: "game-1", Number: 3},
		{ID: "r1", GameID: "game-1", Number: 1},
		{ID: "r2", GameID: "game-1", Number: 2},
		{ID: "other", GameID: "game-2", Number: 1},
	} {
		s.Require().NoError(s.Storage.SaveRound(s.Ctx, r))
	}

	rounds, err := s.Storage.GetRoundsForGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(rounds, 3)
	s.Equal(model.RoundID("r1"), rounds[0].ID)
	s.Equal(model.RoundID("r3"), rounds[2].ID)

	s.Require().NoError(s.Storage.DeleteRoundsForGame(s.Ctx, "game-1"))
	rounds, err = s.Storage.GetRoundsForGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Empty(rounds)

	_, err = s.Storage.GetRound(s.Ctx, "other")
	s.NoError(err)
}

// Hand tests

func (s *Suite) TestSaveAndGetHands() {
	hands := []*model.Hand{
		{GameID: "game-1", RoundID: "r1", PlayerID: "b", Tiles: []model.Tile{model.MustParseTile("42")}},
		{GameID: "game-1", RoundID: "r1", PlayerID: "a", Tiles: []model.Tile{model.MustParseTile("66")}},
		{GameID: "game-1", RoundID: "r2", PlayerID: "a", Tiles: []model.Tile{}},
	}
	s.Require().NoError(s.Storage.SaveHands(s.Ctx, hands...))

	got, err := s.Storage.GetHand(s.Ctx, "r1", "b")
	s.Require().NoError(err)
	s.Equal([]string{"42"}, model.FormatTiles(got.Tiles))

	forRound, err := s.Storage.GetHandsForRound(s.Ctx, "r1")
	s.Require().NoError(err)
	s.Require().Len(forRound, 2)
	s.Equal(model.PlayerID("a"), forRound[0].PlayerID)

	_, err = s.Storage.GetHand(s.Ctx, "r1", "z")
	s.ErrorIs(err, model.ErrHandNotFound)
}

func (s *Suite) TestOverwriteHand() {
	hand := &model.Hand{GameID: "game-1", RoundID: "r1", PlayerID: "a", Tiles: []model.Tile{model.MustParseTile("66"), model.MustParseTile("12")}}
	s.Require().NoError(s.Storage.SaveHands(s.Ctx, hand))

	hand.Tiles = hand.Tiles[1:]
	s.Require().NoError(s.Storage.SaveHands(s.Ctx, hand))

	got, err := s.Storage.GetHand(s.Ctx, "r1", "a")
	s.Require().NoError(err)
	s.Equal([]string{"12"}, model.FormatTiles(got.Tiles))
}

func (s *Suite) TestDeleteHandsForGame() {
	s.Require().NoError(s.Storage.SaveHands(s.Ctx,
		&model.Hand{GameID: "game-1", RoundID: "r1", PlayerID: "a"},
		&model.Hand{GameID: "game-1", RoundID: "r2", PlayerID: "a"},
		&model.Hand{GameID: "game-2", RoundID: "r9", PlayerID: "a"},
	))

	s.Require().NoError(s.Storage.DeleteHandsForGame(s.Ctx, "game-1"))

	_, err := s.Storage.GetHand(s.Ctx, "r1", "a")
	s.ErrorIs(err, model.ErrHandNotFound)
	forRound, err := s.Storage.GetHandsForRound(s.Ctx, "r2")
	s.Require().NoError(err)
	s.Empty(forRound)

	_, err = s.Storage.GetHand(s.Ctx, "r9", "a")
	s.NoError(err)
}
