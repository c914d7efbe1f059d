package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/bot"
	"github.com/mcoot/dominoes-go/internal/services/game"
	"github.com/mcoot/dominoes-go/internal/services/round"
)

// Status tags the outcome of a command
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusIgnored Status = "ignored" // The command targeted a round or game that already ended
	StatusPending Status = "pending" // The tile fits both ends; resend with a placement
)

// Result is what every command returns. Commands never panic out and
// never return a bare error.
type Result struct {
	Status  Status          `json:"status"`
	Kind    model.ErrorKind `json:"kind,omitempty"`
	Message string          `json:"message"`
	Value   any             `json:"value,omitempty"`

	// BotActions lists the moves bots made after the command succeeded
	BotActions []bot.BotAction `json:"botActions,omitempty"`

	Err error `json:"-"`
}

// OK reports whether the command changed state
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// GameRound pairs a game with the round a command dealt
type GameRound struct {
	Game  *model.Game  `json:"game"`
	Round *model.Round `json:"round,omitempty"`
}

// BotSeat is the value of a successful AddBot
type BotSeat struct {
	Player *model.Player `json:"player"`
	Game   *model.Game   `json:"game"`
}

// Messages shown to players for well-known failures
var failureMessages = map[error]string{
	model.ErrInvalidToken:     "Invalid token!",
	model.ErrNoGamesAvailable: "No games available!",
	model.ErrTeammateIsSelf:   "You are alone!",
	model.ErrNotInGame:        "Player not in game!",
}

// Service is the command boundary in front of the game and round
// controllers. It classifies failures and drives bots after every
// successful command.
type Service struct {
	games  *game.Controller
	rounds *round.Controller
	bots   *bot.Service
	logger *slog.Logger
}

// New creates a new command Service. bots may be nil.
func New(games *game.Controller, rounds *round.Controller, bots *bot.Service, logger *slog.Logger) *Service {
	return &Service{
		games:  games,
		rounds: rounds,
		bots:   bots,
		logger: logger.With(slog.String("component", "command")),
	}
}

// CreateGame creates an IDLE game administered by the player
func (s *Service) CreateGame(ctx context.Context, playerID model.PlayerID, gameType model.GameType) Result {
	return execute(s, "create_game", "Successfully created a game.", func() (*model.Game, error) {
		return s.games.CreateGame(ctx, playerID, gameType)
	})
}

// JoinGame joins a game by its token
func (s *Service) JoinGame(ctx context.Context, token string, playerID model.PlayerID) Result {
	return execute(s, "join_game", "Successfully joined the game.", func() (*model.Game, error) {
		return s.games.JoinGame(ctx, token, playerID)
	})
}

// JoinPublicGame joins the oldest public game with a free seat
func (s *Service) JoinPublicGame(ctx context.Context, playerID model.PlayerID) Result {
	return execute(s, "join_public_game", "Successfully joined the game.", func() (*model.Game, error) {
		return s.games.JoinPublicGame(ctx, playerID)
	})
}

// ChooseTeammate pairs the admin with another player
func (s *Service) ChooseTeammate(ctx context.Context, gameID model.GameID, adminID, playerID model.PlayerID) Result {
	return execute(s, "choose_teammate", "Your teammate was successfully set.", func() (*model.Game, error) {
		return s.games.ChooseTeammate(ctx, gameID, adminID, playerID)
	})
}

// RemovePlayer removes a player from an IDLE game
func (s *Service) RemovePlayer(ctx context.Context, gameID model.GameID, requesterID, playerID model.PlayerID) Result {
	return execute(s, "remove_player", "Successfully removed player.", func() (*model.Game, error) {
		return s.games.RemovePlayer(ctx, gameID, requesterID, playerID)
	})
}

// AddBot seats a bot player in an IDLE game
func (s *Service) AddBot(ctx context.Context, gameID model.GameID, requesterID model.PlayerID, strategy string) Result {
	return execute(s, "add_bot", "Successfully added a bot.", func() (*BotSeat, error) {
		if s.bots == nil {
			return nil, errors.New("bots are disabled")
		}
		player, g, err := s.bots.AddBotToGame(ctx, gameID, requesterID, strategy)
		if err != nil {
			return nil, err
		}
		return &BotSeat{Player: player, Game: g}, nil
	})
}

// StartGame moves a full game to PLAYING and deals round one
func (s *Service) StartGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) Result {
	res := execute(s, "start_game", "Game started!", func() (*GameRound, error) {
		g, r, err := s.games.StartGame(ctx, gameID, playerID)
		if err != nil {
			return nil, err
		}
		return &GameRound{Game: g, Round: r}, nil
	})
	return s.withBots(ctx, gameID, res)
}

// CreateRound deals the next round once the current one is scored
func (s *Service) CreateRound(ctx context.Context, gameID model.GameID) Result {
	res := execute(s, "create_round", "Successfully created a round.", func() (*model.Round, error) {
		return s.games.CreateRound(ctx, gameID)
	})
	return s.withBots(ctx, gameID, res)
}

// CancelGame deletes a game and everything dealt in it
func (s *Service) CancelGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) Result {
	return execute(s, "cancel_game", "Game cancelled.", func() (any, error) {
		return nil, s.games.CancelGame(ctx, gameID, playerID)
	})
}

// PlayTile puts a tile on the board. A tile that fits both ends without a
// placement comes back Pending.
func (s *Service) PlayTile(ctx context.Context, req round.PlayRequest) Result {
	res := execute(s, "play_tile", "Successfully played your hand.", func() (*round.Outcome, error) {
		return s.rounds.PlayTile(ctx, req)
	})
	if outcome, ok := res.Value.(*round.Outcome); ok && outcome.Pending {
		res.Status = StatusPending
		res.Message = fmt.Sprintf("Tile %s fits both ends, choose front or back.", req.Tile)
		return res
	}
	return s.withBots(ctx, gameOf(res, req.GameID), res)
}

// PassTurn passes the player's turn
func (s *Service) PassTurn(ctx context.Context, req round.PassRequest) Result {
	res := execute(s, "pass_turn", "Successfully passed to the next player.", func() (*round.Outcome, error) {
		return s.rounds.PassTurn(ctx, req)
	})
	return s.withBots(ctx, gameOf(res, ""), res)
}

// gameOf finds the game a round command touched
func gameOf(res Result, fallback model.GameID) model.GameID {
	if outcome, ok := res.Value.(*round.Outcome); ok && outcome.Round != nil {
		return outcome.Round.GameID
	}
	return fallback
}

// withBots lets bots take their turns after a successful command
func (s *Service) withBots(ctx context.Context, gameID model.GameID, res Result) Result {
	if !res.OK() || s.bots == nil || gameID == "" {
		return res
	}
	actions, err := s.bots.ProcessBotActions(ctx, gameID)
	if err != nil {
		s.logger.Error("bot turn failed",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
	}
	res.BotActions = actions
	return res
}

func execute[T any](s *Service, op, success string, fn func() (T, error)) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("command panicked",
				slog.String("op", op),
				slog.Any("panic", p),
			)
			res = Result{
				Status:  StatusFailed,
				Kind:    model.KindInternal,
				Message: "Something went wrong.",
				Err:     fmt.Errorf("%s: panic: %v", op, p),
			}
		}
	}()

	value, err := fn()
	if err != nil {
		return s.failure(op, err)
	}
	return Result{Status: StatusOK, Message: success, Value: value}
}

func (s *Service) failure(op string, err error) Result {
	kind := model.KindOf(err)
	res := Result{Kind: kind, Message: failureMessage(err), Err: err}

	switch kind {
	case model.KindStaleCommand:
		res.Status = StatusIgnored
		s.logger.Debug("stale command ignored", slog.String("op", op), slog.String("error", err.Error()))
	case model.KindInternal:
		res.Status = StatusFailed
		s.logger.Error("command failed", slog.String("op", op), slog.String("error", err.Error()))
	default:
		res.Status = StatusFailed
		s.logger.Info("command rejected",
			slog.String("op", op),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
	return res
}

func failureMessage(err error) string {
	for target, msg := range failureMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}
