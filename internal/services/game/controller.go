package game

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/mcoot/dominoes-go/internal/dependencies/clock"
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/keylock"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/dealer"
	"github.com/mcoot/dominoes-go/internal/services/events"
	"github.com/mcoot/dominoes-go/internal/services/scoring"
	"github.com/mcoot/dominoes-go/internal/storage"
)

const (
	// TokenLength is the length of private game tokens
	TokenLength = 6

	idLength         = 12
	maxTokenAttempts = 32
)

// Config holds game lifecycle settings
type Config struct {
	// AutoNextRound deals the next round as soon as one is scored
	AutoNextRound bool `yaml:"autoNextRound"`
}

// DefaultConfig returns the default game configuration
func DefaultConfig() Config {
	return Config{AutoNextRound: true}
}

// Controller manages the game lifecycle: roster and teams while IDLE,
// round creation and scoring while PLAYING
type Controller struct {
	storage   storage.Storage
	dealer    *dealer.Service
	scoring   *scoring.Service
	publisher events.Publisher
	locks     *keylock.Locker
	cfg       Config
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	dealer *dealer.Service,
	scoring *scoring.Service,
	publisher events.Publisher,
	cfg Config,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Controller{
		storage:   storage,
		dealer:    dealer,
		scoring:   scoring,
		publisher: publisher,
		locks:     keylock.New(),
		cfg:       cfg,
		clock:     clock,
		random:    random,
		logger:    logger.With(slog.String("component", "game-controller")),
	}
}

func (c *Controller) lock(gameID model.GameID) func() {
	return c.locks.Lock(string(gameID))
}

// LockGame holds the game lock for a caller writing game-owned documents
// outside this controller. It is not reentrant.
func (c *Controller) LockGame(gameID model.GameID) (unlock func()) {
	return c.lock(gameID)
}

func (c *Controller) touch(game *model.Game) {
	game.Version++
	game.UpdatedAt = c.clock.Now()
}

// CreateGame creates an IDLE game with the player as admin and first
// member of team one
func (c *Controller) CreateGame(ctx context.Context, playerID model.PlayerID, gameType model.GameType) (*model.Game, error) {
	if gameType == "" {
		gameType = model.GameTypePrivate
	}
	if gameType != model.GameTypePublic && gameType != model.GameTypePrivate {
		return nil, model.ErrInvalidGameType
	}

	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := c.checkAvailable(ctx, player, ""); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:             model.GameID("g_" + c.random.String(idLength, random.AlphabetID)),
		Status:         model.GameStatusIdle,
		Type:           gameType,
		Admin:          playerID,
		Players:        []model.PlayerID{playerID},
		TeamOnePlayers: []model.PlayerID{playerID},
		TeamTwoPlayers: []model.PlayerID{},
		Rounds:         []model.RoundID{},
		Score:          []model.Team{},
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if gameType == model.GameTypePrivate {
		token, err := c.newToken(ctx)
		if err != nil {
			return nil, err
		}
		game.Token = token
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if err := c.setCurrentGame(ctx, player, game.ID); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("admin", string(playerID)),
		slog.String("type", string(gameType)),
	)

	c.publisher.Publish(ctx, events.GameUpdated(game, now))
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetRounds returns every round of the game, oldest first
func (c *Controller) GetRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	rounds, err := c.storage.GetRoundsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	// A deal whose game write failed leaves a round the game never adopted
	return slices.DeleteFunc(rounds, func(r *model.Round) bool {
		return !slices.Contains(game.Rounds, r.ID)
	}), nil
}

// CurrentGame returns the unfinished game the player belongs to
func (c *Controller) CurrentGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.CurrentGame == "" {
		return nil, model.ErrGameNotFound
	}
	game, err := c.storage.GetGame(ctx, player.CurrentGame)
	if err != nil {
		return nil, err
	}
	if game.Status == model.GameStatusFinished || !game.HasPlayer(playerID) {
		return nil, model.ErrGameNotFound
	}
	return game, nil
}

// JoinGame adds the player to the private or public game holding the token
func (c *Controller) JoinGame(ctx context.Context, token string, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGameByToken(ctx, strings.ToUpper(strings.TrimSpace(token)))
	if err != nil {
		return nil, err
	}
	return c.JoinGameByID(ctx, game.ID, playerID)
}

// JoinPublicGame adds the player to the oldest public game with a free seat
func (c *Controller) JoinPublicGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error) {
	candidates, err := c.storage.ListJoinableGames(ctx)
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		game, err := c.JoinGameByID(ctx, candidate.ID, playerID)
		switch {
		case err == nil:
			return game, nil
		case errors.Is(err, model.ErrGameFull),
			errors.Is(err, model.ErrGameNotIdle),
			errors.Is(err, model.ErrGameNotFound):
			// Lost a race for the seat; try the next game
			continue
		default:
			return nil, err
		}
	}
	return nil, model.ErrNoGamesAvailable
}

// JoinGameByID adds the player to an IDLE game. Joining a game the player
// is already in is a no-op.
func (c *Controller) JoinGameByID(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.HasPlayer(playerID) {
		return game, nil
	}
	if game.Status != model.GameStatusIdle {
		return nil, model.ErrGameNotIdle
	}
	if game.IsFull() {
		return nil, model.ErrGameFull
	}

	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := c.checkAvailable(ctx, player, gameID); err != nil {
		return nil, err
	}

	game.Players = append(game.Players, playerID)
	if len(game.TeamOnePlayers) >= 2 {
		game.TeamTwoPlayers = append(game.TeamTwoPlayers, playerID)
	}
	c.touch(game)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	if err := c.setCurrentGame(ctx, player, game.ID); err != nil {
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", len(game.Players)),
	)

	c.publisher.Publish(ctx, events.GameUpdated(game, game.UpdatedAt))
	return game, nil
}

// ChooseTeammate puts the chosen player on the admin's team and everyone
// else on team two
func (c *Controller) ChooseTeammate(ctx context.Context, gameID model.GameID, adminID, playerID model.PlayerID) (*model.Game, error) {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Admin != adminID {
		return nil, model.ErrNotAdmin
	}
	if game.Status != model.GameStatusIdle {
		return nil, model.ErrGameNotIdle
	}
	if playerID == adminID {
		return nil, model.ErrTeammateIsSelf
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotInGame
	}

	game.TeamOnePlayers = []model.PlayerID{adminID, playerID}
	game.TeamTwoPlayers = []model.PlayerID{}
	for _, id := range game.Players {
		if id != adminID && id != playerID {
			game.TeamTwoPlayers = append(game.TeamTwoPlayers, id)
		}
	}
	c.touch(game)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("teammate chosen",
		slog.String("game_id", string(game.ID)),
		slog.String("teammate", string(playerID)),
	)

	c.publisher.Publish(ctx, events.GameUpdated(game, game.UpdatedAt))
	return game, nil
}

// RemovePlayer takes a player off the roster. The admin may remove anyone
// else; players may remove themselves. Bots are deleted once removed.
func (c *Controller) RemovePlayer(ctx context.Context, gameID model.GameID, requesterID, playerID model.PlayerID) (*model.Game, error) {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status == model.GameStatusFinished {
		return game, nil
	}
	if requesterID != game.Admin && requesterID != playerID {
		return nil, model.ErrNotAdmin
	}
	if playerID == game.Admin {
		return nil, model.ErrCannotRemoveAdmin
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotInGame
	}
	if game.Status != model.GameStatusIdle {
		return nil, model.ErrGameNotIdle
	}

	game.RemovePlayer(playerID)
	c.touch(game)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	c.releasePlayer(ctx, playerID, gameID)

	kicked := requesterID != playerID
	c.logger.Info("player removed from game",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("kicked", kicked),
	)

	c.publisher.Publish(ctx, events.PlayerLeft(game.ID, playerID, kicked, game.UpdatedAt))
	c.publisher.Publish(ctx, events.GameUpdated(game, game.UpdatedAt))
	return game, nil
}

// StartGame fills any open team seats in join order, arranges the roster
// into turn order and deals round one
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.Round, error) {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game.Admin != playerID {
		return nil, nil, model.ErrNotAdmin
	}
	switch game.Status {
	case model.GameStatusFinished:
		return nil, nil, model.ErrGameFinished
	case model.GameStatusPlaying:
		return nil, nil, model.ErrGameNotIdle
	}
	if len(game.Players) != model.PlayersPerGame {
		return nil, nil, model.ErrInsufficientPlayers
	}

	fillTeams(game)
	if !game.TeamsComplete() {
		return nil, nil, model.ErrTeamsIncomplete
	}

	game.Status = model.GameStatusPlaying
	round, hands, err := c.dealRound(game)
	if err != nil {
		return nil, nil, err
	}
	c.touch(game)

	if err := c.saveRound(ctx, game, round, hands); err != nil {
		return nil, nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.String("round_id", string(round.ID)),
		slog.String("starting_player", string(round.StartingPlayer)),
	)

	c.publishRound(ctx, game, round, hands)
	return game, round, nil
}

// CreateRound deals a new round once the current one is over
func (c *Controller) CreateRound(ctx context.Context, gameID model.GameID) (*model.Round, error) {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	switch game.Status {
	case model.GameStatusFinished:
		return nil, model.ErrGameFinished
	case model.GameStatusIdle:
		return nil, model.ErrGameNotPlaying
	}

	if current := game.CurrentRound(); current != "" {
		round, err := c.storage.GetRound(ctx, current)
		if err != nil {
			return nil, err
		}
		if !round.IsTerminal() {
			return nil, model.ErrRoundInProgress
		}
		if len(game.Score) < round.Number {
			// The round ended but its scoring never landed. Score it now.
			next, err := c.completeRound(ctx, game, round)
			if err != nil {
				return nil, err
			}
			switch {
			case next != nil:
				return next, nil
			case game.Status == model.GameStatusFinished:
				return nil, model.ErrGameFinished
			}
		}
	}

	round, hands, err := c.dealRound(game)
	if err != nil {
		return nil, err
	}
	c.touch(game)

	if err := c.saveRound(ctx, game, round, hands); err != nil {
		return nil, err
	}

	c.logger.Info("round created",
		slog.String("game_id", string(game.ID)),
		slog.String("round_id", string(round.ID)),
		slog.Int("number", round.Number),
		slog.String("starting_player", string(round.StartingPlayer)),
	)

	c.publishRound(ctx, game, round, hands)
	return round, nil
}

// CompleteRound scores a round that has just ended or blocked, finishes
// the game when a team reaches the target and otherwise deals the next
// round. Scoring a round twice is a no-op. The returned round is the next
// one, or nil.
func (c *Controller) CompleteRound(ctx context.Context, roundID model.RoundID) (*model.Game, *model.Round, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}

	defer c.lock(round.GameID)()

	game, err := c.storage.GetGame(ctx, round.GameID)
	if err != nil {
		return nil, nil, err
	}
	// Re-read under the game lock
	round, err = c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	if !round.IsTerminal() {
		return nil, nil, model.ErrRoundInProgress
	}
	if game.Status != model.GameStatusPlaying || len(game.Score) >= round.Number {
		return game, nil, nil
	}

	next, err := c.completeRound(ctx, game, round)
	if err != nil {
		return nil, nil, err
	}
	return game, next, nil
}

// completeRound scores a terminal, unscored round of a PLAYING game. The
// caller holds the game lock.
func (c *Controller) completeRound(ctx context.Context, game *model.Game, round *model.Round) (*model.Round, error) {
	stored, err := c.storage.GetHandsForRound(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	hands := make(map[model.PlayerID]*model.Hand, len(stored))
	for _, hand := range stored {
		hands[hand.PlayerID] = hand
	}

	var result scoring.RoundResult
	if round.Status == model.RoundStatusEnded {
		result = c.scoring.ScoreEmptiedHand(game, round.Winner, hands)
	} else {
		result = c.scoring.ScoreBlocked(game, hands)
	}
	c.scoring.Apply(game, round, result)
	round.Version++
	round.UpdatedAt = c.clock.Now()

	finished := c.scoring.CheckGameOver(game)

	var next *model.Round
	var nextHands []*model.Hand
	if !finished && c.cfg.AutoNextRound {
		next, nextHands, err = c.dealRound(game)
		if err != nil {
			return nil, err
		}
	}
	c.touch(game)

	if err := c.storage.SaveRound(ctx, round); err != nil {
		return nil, err
	}
	if next != nil {
		if err := c.saveRound(ctx, game, next, nextHands); err != nil {
			return nil, err
		}
	} else if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("round scored",
		slog.String("game_id", string(game.ID)),
		slog.String("round_id", string(round.ID)),
		slog.String("status", string(round.Status)),
		slog.Int("winning_team", int(result.WinningTeam)),
		slog.Int("points", result.PointsWon),
		slog.Int("team_one_score", game.TeamOneScore),
		slog.Int("team_two_score", game.TeamTwoScore),
	)

	c.publisher.Publish(ctx, events.RoundUpdated(round, round.UpdatedAt))
	if finished {
		for _, id := range game.Players {
			c.releasePlayer(ctx, id, game.ID)
		}
		c.logger.Info("game finished",
			slog.String("game_id", string(game.ID)),
			slog.Int("winning_team", int(game.WinningTeam)),
		)
	}
	if next != nil {
		c.publishRound(ctx, game, next, nextHands)
	} else {
		c.publisher.Publish(ctx, events.GameUpdated(game, game.UpdatedAt))
	}

	return next, nil
}

// CancelGame deletes the game with its rounds and hands
func (c *Controller) CancelGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	defer c.lock(gameID)()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Admin != playerID {
		return model.ErrNotAdmin
	}

	if err := c.storage.DeleteHandsForGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteRoundsForGame(ctx, gameID); err != nil {
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	for _, id := range game.Players {
		c.releasePlayer(ctx, id, gameID)
	}

	c.logger.Info("game cancelled",
		slog.String("game_id", string(gameID)),
		slog.String("status", string(game.Status)),
	)

	c.publisher.Publish(ctx, events.GameCancelled(gameID, c.clock.Now()))
	return nil
}

// dealRound deals a round for a PLAYING game and rotates the roster so the
// starting player sits in slot 0. Round one starts with whoever holds the
// double six, later rounds with the previous round's winner.
func (c *Controller) dealRound(game *model.Game) (*model.Round, []*model.Hand, error) {
	order, err := game.TurnOrder()
	if err != nil {
		return nil, nil, err
	}

	deal := c.dealer.Deal()
	number := len(game.Rounds) + 1

	starter := order[deal.StartingIndex]
	if number > 1 && game.HasPlayer(game.LastRoundWinner) {
		starter = game.LastRoundWinner
	}
	turnOrder := model.RotateTo(order, starter)

	now := c.clock.Now()
	round := &model.Round{
		ID:             model.RoundID("r_" + c.random.String(idLength, random.AlphabetID)),
		GameID:         game.ID,
		Number:         number,
		Players:        turnOrder,
		Board:          []model.Tile{},
		Turn:           starter,
		Status:         model.RoundStatusPlaying,
		StartingPlayer: starter,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	hands := make([]*model.Hand, len(order))
	for i, id := range order {
		hands[i] = &model.Hand{
			GameID:    game.ID,
			RoundID:   round.ID,
			PlayerID:  id,
			Tiles:     deal.Hands[i],
			Version:   1,
			UpdatedAt: now,
		}
	}

	game.Players = turnOrder
	game.Rounds = append(game.Rounds, round.ID)
	return round, hands, nil
}

// saveRound persists hands and round before the game that points at them
func (c *Controller) saveRound(ctx context.Context, game *model.Game, round *model.Round, hands []*model.Hand) error {
	if err := c.storage.SaveHands(ctx, hands...); err != nil {
		return err
	}
	if err := c.storage.SaveRound(ctx, round); err != nil {
		return err
	}
	return c.storage.SaveGame(ctx, game)
}

func (c *Controller) publishRound(ctx context.Context, game *model.Game, round *model.Round, hands []*model.Hand) {
	c.publisher.Publish(ctx, events.GameUpdated(game, game.UpdatedAt))
	c.publisher.Publish(ctx, events.RoundUpdated(round, round.UpdatedAt))
	for _, hand := range hands {
		c.publisher.Publish(ctx, events.HandUpdated(hand, hand.UpdatedAt))
	}
}

// fillTeams seats every player not yet on a team, in join order, on team
// one until it has two members and then on team two
func fillTeams(game *model.Game) {
	for _, id := range game.Players {
		if game.TeamOf(id) != model.TeamNone {
			continue
		}
		if len(game.TeamOnePlayers) < 2 {
			game.TeamOnePlayers = append(game.TeamOnePlayers, id)
		} else {
			game.TeamTwoPlayers = append(game.TeamTwoPlayers, id)
		}
	}
}

// checkAvailable rejects players who still belong to another unfinished
// game. Pointers at deleted or finished games are ignored.
func (c *Controller) checkAvailable(ctx context.Context, player *model.Player, joining model.GameID) error {
	if player.CurrentGame == "" || player.CurrentGame == joining {
		return nil
	}
	current, err := c.storage.GetGame(ctx, player.CurrentGame)
	if errors.Is(err, model.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if current.Status == model.GameStatusFinished || !current.HasPlayer(player.ID) {
		return nil
	}
	return model.ErrAlreadyInGame
}

func (c *Controller) setCurrentGame(ctx context.Context, player *model.Player, gameID model.GameID) error {
	player.CurrentGame = gameID
	return c.storage.SavePlayer(ctx, player)
}

// releasePlayer clears the player's pointer at the game. Bots only exist
// for one game and are deleted instead.
func (c *Controller) releasePlayer(ctx context.Context, playerID model.PlayerID, gameID model.GameID) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return
	}

	if player.IsBot {
		err = c.storage.DeletePlayer(ctx, playerID)
	} else if player.CurrentGame == gameID {
		player.CurrentGame = ""
		err = c.storage.SavePlayer(ctx, player)
	}
	if err != nil {
		c.logger.Warn("failed to release player",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
	}
}

// newToken generates a private game token no other game is using
func (c *Controller) newToken(ctx context.Context) (string, error) {
	for range maxTokenAttempts {
		token := c.random.String(TokenLength, random.AlphabetToken)
		_, err := c.storage.GetGameByToken(ctx, token)
		if errors.Is(err, model.ErrInvalidToken) {
			return token, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("game: could not allocate a unique token")
}

// ControllerInterface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, playerID model.PlayerID, gameType model.GameType) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GetRounds(ctx context.Context, gameID model.GameID) ([]*model.Round, error)
	CurrentGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error)
	JoinGame(ctx context.Context, token string, playerID model.PlayerID) (*model.Game, error)
	JoinPublicGame(ctx context.Context, playerID model.PlayerID) (*model.Game, error)
	JoinGameByID(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	ChooseTeammate(ctx context.Context, gameID model.GameID, adminID, playerID model.PlayerID) (*model.Game, error)
	RemovePlayer(ctx context.Context, gameID model.GameID, requesterID, playerID model.PlayerID) (*model.Game, error)
	StartGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, *model.Round, error)
	CreateRound(ctx context.Context, gameID model.GameID) (*model.Round, error)
	CompleteRound(ctx context.Context, roundID model.RoundID) (*model.Game, *model.Round, error)
	LockGame(gameID model.GameID) (unlock func())
	CancelGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
