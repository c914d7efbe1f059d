package round

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mcoot/dominoes-go/internal/dependencies/clock"
	"github.com/mcoot/dominoes-go/internal/keylock"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/events"
	"github.com/mcoot/dominoes-go/internal/services/rules"
	"github.com/mcoot/dominoes-go/internal/services/viewport"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// Config holds round play settings
type Config struct {
	// AutoPass passes for any player left without a legal tile
	AutoPass bool `yaml:"autoPass"`
}

// DefaultConfig returns the default round configuration
func DefaultConfig() Config {
	return Config{AutoPass: true}
}

// Completer scores a terminal round and deals the next one. LockGame
// serialises move writes with game-wide changes such as cancellation.
type Completer interface {
	CompleteRound(ctx context.Context, roundID model.RoundID) (*model.Game, *model.Round, error)
	LockGame(gameID model.GameID) (unlock func())
}

// PlayRequest is a request to put a tile on the board. Placement is only
// needed for tiles that fit both ends.
type PlayRequest struct {
	PlayerID  model.PlayerID
	GameID    model.GameID // optional cross-check against the round
	RoundID   model.RoundID
	Tile      model.Tile
	Placement model.Placement
}

// PassRequest is a request to pass. NextPlayerID, when set, must name the
// player who moves next.
type PassRequest struct {
	PlayerID     model.PlayerID
	RoundID      model.RoundID
	NextPlayerID model.PlayerID
}

// Outcome describes what a play or pass did
type Outcome struct {
	Round *model.Round `json:"round"`
	Hand  *model.Hand  `json:"hand,omitempty"`

	Evaluation *rules.Evaluation `json:"evaluation,omitempty"`
	// Pending is set when the tile fits both ends and no placement was
	// given. Nothing was changed.
	Pending    bool              `json:"pending"`
	Placements []model.Placement `json:"placements,omitempty"`

	AutoPassed []model.PlayerID `json:"autoPassed,omitempty"`

	// Set when the command finished the round
	Game      *model.Game  `json:"game,omitempty"`
	NextRound *model.Round `json:"nextRound,omitempty"`
	// ScoringPending is set when the round ended but could not be scored.
	// The move itself is saved; creating a round scores it later.
	ScoringPending bool `json:"scoringPending,omitempty"`
}

// Controller handles play and pass commands. Commands on one round run
// one at a time against a fresh read of the round and hand.
type Controller struct {
	storage   storage.Storage
	rules     *rules.Service
	viewport  *viewport.Service
	completer Completer
	publisher events.Publisher
	locks     *keylock.Locker
	cfg       Config
	clock     clock.Clock
	logger    *slog.Logger
}

// NewController creates a new round Controller
func NewController(
	storage storage.Storage,
	rules *rules.Service,
	viewport *viewport.Service,
	completer Completer,
	publisher events.Publisher,
	cfg Config,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Controller{
		storage:   storage,
		rules:     rules,
		viewport:  viewport,
		completer: completer,
		publisher: publisher,
		locks:     keylock.New(),
		cfg:       cfg,
		clock:     clock,
		logger:    logger.With(slog.String("component", "round-controller")),
	}
}

// GetRound retrieves a round by ID
func (c *Controller) GetRound(ctx context.Context, roundID model.RoundID) (*model.Round, error) {
	return c.storage.GetRound(ctx, roundID)
}

// GetHand returns a player's own hand
func (c *Controller) GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(round.Players, playerID) {
		return nil, model.ErrNotInGame
	}
	return c.storage.GetHand(ctx, roundID, playerID)
}

// Playable evaluates every tile in the player's hand against the board
func (c *Controller) Playable(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) ([]rules.TileOption, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(round.Players, playerID) {
		return nil, model.ErrNotInGame
	}
	hand, err := c.storage.GetHand(ctx, roundID, playerID)
	if err != nil {
		return nil, err
	}
	return c.rules.Playable(round, hand), nil
}

// Viewport returns the visible window of the board
func (c *Controller) Viewport(ctx context.Context, roundID model.RoundID) (viewport.Window, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return viewport.Window{}, err
	}
	return c.viewport.Window(round), nil
}

// PlayTile plays a tile from the player's hand. A tile that fits both ends
// without a placement returns a pending outcome and changes nothing.
func (c *Controller) PlayTile(ctx context.Context, req PlayRequest) (*Outcome, error) {
	unlock := c.locks.Lock(string(req.RoundID))
	defer unlock()

	round, hand, err := c.load(ctx, req.RoundID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if req.GameID != "" && req.GameID != round.GameID {
		return nil, model.ErrRoundNotFound
	}
	if !hand.Contains(req.Tile) {
		return nil, model.ErrTileNotInHand
	}

	eval := c.rules.EvaluatePlay(round, req.PlayerID, req.Tile)
	if eval.Ambiguous && req.Placement == "" {
		return &Outcome{
			Round:      round,
			Hand:       hand,
			Evaluation: &eval,
			Pending:    true,
			Placements: []model.Placement{model.PlacementFront, model.PlacementBack},
		}, nil
	}
	// The player only picks the end for a tile that fits both. Otherwise
	// the placement rules decide and a requested end is not consulted.
	if eval.Ambiguous {
		eval = c.rules.EvaluateAt(round, req.PlayerID, req.Tile, req.Placement)
	}
	if !eval.Legal {
		if eval.Reason != nil {
			return nil, eval.Reason
		}
		return nil, model.ErrIllegalPlay
	}

	if _, err := c.rules.ApplyPlay(round, hand, req.Tile, eval); err != nil {
		return nil, err
	}
	c.viewport.Rebalance(round)

	outcome := &Outcome{Round: round, Hand: hand, Evaluation: &eval}
	if err := c.autoPass(ctx, round, outcome); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	hand.Version++
	hand.UpdatedAt = now
	round.Version++
	round.UpdatedAt = now

	if err := c.commit(ctx, round, hand); err != nil {
		return nil, err
	}

	c.logger.Info("tile played",
		slog.String("round_id", string(round.ID)),
		slog.String("player_id", string(req.PlayerID)),
		slog.String("tile", eval.Oriented(req.Tile).String()),
		slog.String("placement", string(eval.Placement)),
		slog.Int("board_length", len(round.Board)),
		slog.String("status", string(round.Status)),
	)

	c.publisher.Publish(ctx, events.HandUpdated(hand, now))
	c.publisher.Publish(ctx, events.RoundUpdated(round, now))

	c.complete(ctx, outcome)
	return outcome, nil
}

// PassTurn passes for a player with no legal tile
func (c *Controller) PassTurn(ctx context.Context, req PassRequest) (*Outcome, error) {
	unlock := c.locks.Lock(string(req.RoundID))
	defer unlock()

	round, hand, err := c.load(ctx, req.RoundID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if round.Turn != req.PlayerID {
		return nil, model.ErrNotPlayerTurn
	}
	if req.NextPlayerID != "" && req.NextPlayerID != round.NextPlayer(req.PlayerID) {
		return nil, model.ErrUnexpectedNextPlayer
	}
	if c.rules.HasLegalPlay(round, hand) {
		return nil, model.ErrMustPlay
	}

	if _, err := c.rules.ApplyPass(round, req.PlayerID); err != nil {
		return nil, err
	}

	outcome := &Outcome{Round: round}
	if err := c.autoPass(ctx, round, outcome); err != nil {
		return nil, err
	}

	round.Version++
	round.UpdatedAt = c.clock.Now()
	if err := c.commit(ctx, round, nil); err != nil {
		return nil, err
	}

	c.logger.Info("turn passed",
		slog.String("round_id", string(round.ID)),
		slog.String("player_id", string(req.PlayerID)),
		slog.Int("pass_count", round.PassCount),
		slog.String("status", string(round.Status)),
	)

	c.publisher.Publish(ctx, events.RoundUpdated(round, round.UpdatedAt))

	c.complete(ctx, outcome)
	return outcome, nil
}

// commit saves the move under the game lock. A game cancelled while the
// move was being worked out stays deleted.
func (c *Controller) commit(ctx context.Context, round *model.Round, hand *model.Hand) error {
	if c.completer != nil {
		defer c.completer.LockGame(round.GameID)()
	}
	if _, err := c.storage.GetGame(ctx, round.GameID); err != nil {
		return err
	}
	if hand != nil {
		if err := c.storage.SaveHands(ctx, hand); err != nil {
			return err
		}
	}
	return c.storage.SaveRound(ctx, round)
}

// load re-reads the round and the acting player's hand inside the lock
func (c *Controller) load(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Round, *model.Hand, error) {
	round, err := c.storage.GetRound(ctx, roundID)
	if err != nil {
		return nil, nil, err
	}
	if round.IsTerminal() {
		return nil, nil, model.ErrRoundFinished
	}
	if !slices.Contains(round.Players, playerID) {
		return nil, nil, model.ErrNotInGame
	}
	hand, err := c.storage.GetHand(ctx, roundID, playerID)
	if err != nil {
		return nil, nil, err
	}
	return round, hand, nil
}

// autoPass passes for each player to move who holds no legal tile, until
// someone can play or the round blocks
func (c *Controller) autoPass(ctx context.Context, round *model.Round, outcome *Outcome) error {
	if !c.cfg.AutoPass {
		return nil
	}
	for round.Status == model.RoundStatusPlaying {
		hand, err := c.storage.GetHand(ctx, round.ID, round.Turn)
		if err != nil {
			return err
		}
		if c.rules.HasLegalPlay(round, hand) {
			return nil
		}
		player := round.Turn
		if _, err := c.rules.ApplyPass(round, player); err != nil {
			return err
		}
		outcome.AutoPassed = append(outcome.AutoPassed, player)
	}
	return nil
}

// complete hands a finished round over for scoring. The move is already
// saved, so a scoring failure is logged and left for CreateRound to retry.
func (c *Controller) complete(ctx context.Context, outcome *Outcome) {
	if !outcome.Round.IsTerminal() || c.completer == nil {
		return
	}
	game, next, err := c.completer.CompleteRound(ctx, outcome.Round.ID)
	if err != nil {
		c.logger.Error("failed to complete round",
			slog.String("round_id", string(outcome.Round.ID)),
			slog.String("error", err.Error()),
		)
		outcome.ScoringPending = true
		return
	}
	outcome.Game = game
	outcome.NextRound = next

	// Pick up the scored winner fields
	if scored, err := c.storage.GetRound(ctx, outcome.Round.ID); err == nil {
		outcome.Round = scored
	}
}

// ControllerInterface for dependency injection
type ControllerInterface interface {
	GetRound(ctx context.Context, roundID model.RoundID) (*model.Round, error)
	GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error)
	Playable(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) ([]rules.TileOption, error)
	Viewport(ctx context.Context, roundID model.RoundID) (viewport.Window, error)
	PlayTile(ctx context.Context, req PlayRequest) (*Outcome, error)
	PassTurn(ctx context.Context, req PassRequest) (*Outcome, error)
}

var _ ControllerInterface = (*Controller)(nil)
