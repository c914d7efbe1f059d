package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/dominoes-go/internal/config"
	"github.com/mcoot/dominoes-go/internal/dependencies/clock"
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/realtime"
	"github.com/mcoot/dominoes-go/internal/services/auth"
	"github.com/mcoot/dominoes-go/internal/services/bot"
	"github.com/mcoot/dominoes-go/internal/services/command"
	"github.com/mcoot/dominoes-go/internal/services/dealer"
	"github.com/mcoot/dominoes-go/internal/services/game"
	"github.com/mcoot/dominoes-go/internal/services/round"
	"github.com/mcoot/dominoes-go/internal/services/rules"
	"github.com/mcoot/dominoes-go/internal/services/scoring"
	"github.com/mcoot/dominoes-go/internal/services/viewport"
	"github.com/mcoot/dominoes-go/internal/storage"
	"github.com/mcoot/dominoes-go/internal/storage/memory"
	redisstorage "github.com/mcoot/dominoes-go/internal/storage/redis"
	"github.com/mcoot/dominoes-go/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Dealer          *dealer.Service
	RulesService    *rules.Service
	ScoringService  *scoring.Service
	ViewportService *viewport.Service
	GameController  *game.Controller
	RoundController *round.Controller
	BotService      *bot.Service
	Commands        *command.Service
	AuthService     *auth.Service

	// Realtime
	HubManager  *realtime.HubManager
	Broadcaster *realtime.Broadcaster

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Rules holds rule and bot settings (optional)
	// If TargetScore is zero, the default rules are used
	Rules config.RulesConfig
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// FromConfig builds a factory Config from the loaded server configuration
func FromConfig(cfg config.Config, logger *slog.Logger) Config {
	redisCfg := cfg.Redis
	return Config{
		AuthConfig:  cfg.Auth,
		Rules:       cfg.Rules,
		Logger:      logger,
		StorageType: cfg.Storage.Type,
		RedisConfig: &redisCfg,
		SQLitePath:  cfg.SQLite.Path,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var (
		store  storage.Storage
		closer io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store, closer = redisStore, redisStore
	case config.StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		store, closer = sqliteStore, sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	rulesCfg := cfg.Rules
	if rulesCfg.TargetScore == 0 {
		rulesCfg = config.DefaultConfig().Rules
	}

	logger.Info("storage ready", slog.String("type", storageType))

	app := newWithDependencies(store, clock.New(), random.New(), authCfg, rulesCfg, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	rulesCfg config.RulesConfig,
	logger *slog.Logger,
) *App {
	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, logger)

	dealerService := dealer.New(rnd)
	rulesService := rules.New()
	scoringService := scoring.New(rulesCfg.TargetScore)
	viewportService := viewport.New(rulesCfg.ViewportHalfWidth)

	gameController := game.NewController(store, dealerService, scoringService, broadcaster,
		game.Config{AutoNextRound: rulesCfg.AutoNextRound}, clk, rnd, logger)
	roundController := round.NewController(store, rulesService, viewportService, gameController, broadcaster,
		round.Config{AutoPass: rulesCfg.AutoPass}, clk, logger)

	botService := bot.NewService(store, gameController, roundController, rulesService,
		bot.DefaultStrategies(rnd), clk, rnd, logger)
	botService.SetMaxIterations(rulesCfg.MaxBotIterations)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Dealer:          dealerService,
		RulesService:    rulesService,
		ScoringService:  scoringService,
		ViewportService: viewportService,
		GameController:  gameController,
		RoundController: roundController,
		BotService:      botService,
		Commands:        command.New(gameController, roundController, botService, logger),
		AuthService:     auth.New(store, clk, rnd, authCfg),
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
	}
}

// Close shuts down realtime hubs and releases the storage connection
func (a *App) Close() error {
	a.HubManager.Close()
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
