package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/dominoes-go/internal/dependencies/clock"
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/game"
	"github.com/mcoot/dominoes-go/internal/services/round"
	"github.com/mcoot/dominoes-go/internal/services/rules"
	"github.com/mcoot/dominoes-go/internal/storage"
)

const (
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the ProcessBotActions loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionPlay BotActionType = "play"
	ActionPass BotActionType = "pass"
)

// BotAction represents a single action taken by a bot during ProcessBotActions
type BotAction struct {
	Type      BotActionType   `json:"type"`
	PlayerID  model.PlayerID  `json:"playerId"`
	RoundID   model.RoundID   `json:"roundId"`
	Tile      *model.Tile     `json:"tile,omitempty"`
	Placement model.Placement `json:"placement,omitempty"`
}

// Service seats bot players and plays their turns
type Service struct {
	storage    storage.Storage
	games      *game.Controller
	rounds     *round.Controller
	rules      *rules.Service
	strategies map[string]Strategy
	maxIter    int
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	games *game.Controller,
	rounds *round.Controller,
	rulesService *rules.Service,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:    store,
		games:      games,
		rounds:     rounds,
		rules:      rulesService,
		strategies: strategies,
		maxIter:    MaxBotIterations,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// SetMaxIterations bounds the number of bot moves one ProcessBotActions call
// may make. Values below 1 restore the default.
func (s *Service) SetMaxIterations(n int) {
	if n < 1 {
		n = MaxBotIterations
	}
	s.maxIter = n
}

// DefaultStrategies registers every built-in strategy
func DefaultStrategies(rnd random.Random) map[string]Strategy {
	return map[string]Strategy{
		model.BotStrategyFirst:  NewFirstStrategy(),
		model.BotStrategyRandom: NewRandomStrategy(rnd),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, random.AlphabetID)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// AddBotToGame creates a bot player and seats it in an IDLE game.
// Only the game admin can add bots.
func (s *Service) AddBotToGame(ctx context.Context, gameID model.GameID, requestingPlayerID model.PlayerID, strategy string) (*model.Player, *model.Game, error) {
	if strategy == "" {
		strategy = model.BotStrategyFirst
	}
	if _, ok := s.strategies[strategy]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", model.ErrInvalidBotStrategy, strategy)
	}

	g, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if g.Admin != requestingPlayerID {
		return nil, nil, model.ErrNotAdmin
	}
	if g.Status != model.GameStatusIdle {
		return nil, nil, model.ErrGameNotIdle
	}
	if g.IsFull() {
		return nil, nil, model.ErrGameFull
	}

	// Count existing bots for naming
	botCount := 0
	for _, id := range g.Players {
		if p, err := s.storage.GetPlayer(ctx, id); err == nil && p.IsBot {
			botCount++
		}
	}

	displayName := fmt.Sprintf("%s Bot %d", model.BotStrategyDisplayName(strategy), botCount+1)
	bot, err := s.CreateBotPlayer(ctx, displayName, strategy)
	if err != nil {
		return nil, nil, err
	}

	g, err = s.games.JoinGameByID(ctx, gameID, bot.ID)
	if err != nil {
		_ = s.storage.DeletePlayer(ctx, bot.ID)
		return nil, nil, err
	}

	s.logger.Info("bot added to game",
		slog.String("game_id", string(gameID)),
		slog.String("bot_id", string(bot.ID)),
		slog.String("bot_name", displayName),
		slog.String("strategy", strategy),
	)

	return bot, g, nil
}

// ProcessBotActions plays bot turns until a human is to move, the game
// stops playing or the iteration limit is hit. It returns every action
// taken.
func (s *Service) ProcessBotActions(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction

	for range s.maxIter {
		g, err := s.games.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.Status != model.GameStatusPlaying || g.CurrentRound() == "" {
			break
		}

		r, err := s.rounds.GetRound(ctx, g.CurrentRound())
		if err != nil {
			return actions, err
		}
		if r.IsTerminal() {
			break // Waiting for someone to deal the next round
		}

		player, err := s.storage.GetPlayer(ctx, r.Turn)
		if err != nil {
			return actions, err
		}
		if !player.IsBot {
			break // Human's turn
		}

		hand, err := s.storage.GetHand(ctx, r.ID, player.ID)
		if err != nil {
			return actions, err
		}

		options := s.rules.Playable(r, hand)
		if len(playableOptions(options)) == 0 {
			if _, err := s.rounds.PassTurn(ctx, round.PassRequest{PlayerID: player.ID, RoundID: r.ID}); err != nil {
				return actions, err
			}
			actions = append(actions, BotAction{Type: ActionPass, PlayerID: player.ID, RoundID: r.ID})
			continue
		}

		tile, placement := s.strategyForPlayer(player).ChooseTile(r, options)
		outcome, err := s.rounds.PlayTile(ctx, round.PlayRequest{
			PlayerID:  player.ID,
			GameID:    gameID,
			RoundID:   r.ID,
			Tile:      tile,
			Placement: placement,
		})
		if err != nil {
			return actions, err
		}
		if outcome.Pending {
			return actions, fmt.Errorf("bot %s left tile %s unplaced", player.ID, tile)
		}
		actions = append(actions, BotAction{
			Type:      ActionPlay,
			PlayerID:  player.ID,
			RoundID:   r.ID,
			Tile:      &tile,
			Placement: outcome.Evaluation.Placement,
		})
	}

	if len(actions) > 0 {
		s.logger.Debug("bot actions processed",
			slog.String("game_id", string(gameID)),
			slog.Int("actions", len(actions)),
		)
	}
	return actions, nil
}

// strategyForPlayer returns the bot's strategy, falling back to the first
// strategy if the player's one is not registered
func (s *Service) strategyForPlayer(player *model.Player) Strategy {
	if st, ok := s.strategies[player.BotStrategy]; ok {
		return st
	}
	if st, ok := s.strategies[model.BotStrategyFirst]; ok {
		return st
	}
	return NewFirstStrategy()
}
