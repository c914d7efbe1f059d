package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Documents are stored as JSON strings; SETs index rounds and hands by
// their parent so whole games can be listed and deleted.
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func getJSON[T any](ctx context.Context, client *redis.Client, key string, notFound error) (*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("redis: decode %s: %w", key, err)
	}
	return &out, nil
}

// mgetJSON fetches many documents in one round trip, skipping expired keys
func mgetJSON[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	out := make([]*T, 0, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			continue
		}
		out = append(out, &doc)
	}
	return out, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Only guest players expire
	var ttl time.Duration
	if player.IsGuest || player.IsBot {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, s.keys.player(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, s.keys.player(id), model.ErrPlayerNotFound)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, s.keys.player(id)).Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.registeredPlayer(rp.Username), data, 0).Err()
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return getJSON[model.RegisteredPlayer](ctx, s.client, s.keys.registeredPlayer(username), model.ErrPlayerNotFound)
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keys.session(session.Token), data, s.cfg.SessionTTL).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	return getJSON[model.Session](ctx, s.client, s.keys.session(token), model.ErrSessionNotFound)
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.keys.session(token)).Err()
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	// Save the document and keep both lookup indexes in step
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.game(game.ID), data, s.cfg.GameTTL)
	if game.Token != "" {
		pipe.Set(ctx, s.keys.gameTokenIndex(game.Token), string(game.ID), s.cfg.GameTTL)
	}
	if game.Type == model.GameTypePublic && game.IsJoinable() {
		pipe.SAdd(ctx, s.keys.joinableGamesIndex(), string(game.ID))
	} else {
		pipe.SRem(ctx, s.keys.joinableGamesIndex(), string(game.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, s.keys.game(id), model.ErrGameNotFound)
}

func (s *Storage) GetGameByToken(ctx context.Context, token string) (*model.Game, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}
	id, err := s.client.Get(ctx, s.keys.gameTokenIndex(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInvalidToken
		}
		return nil, err
	}
	game, err := s.GetGame(ctx, model.GameID(id))
	if errors.Is(err, model.ErrGameNotFound) {
		return nil, model.ErrInvalidToken
	}
	return game, err
}

func (s *Storage) ListJoinableGames(ctx context.Context) ([]*model.Game, error) {
	ids, err := s.client.SMembers(ctx, s.keys.joinableGamesIndex()).Result()
	if err != nil {
		return nil, err
	}
	gameKeys := make([]string, len(ids))
	for i, id := range ids {
		gameKeys[i] = s.keys.game(model.GameID(id))
	}

	games, err := mgetJSON[model.Game](ctx, s.client, gameKeys)
	if err != nil {
		return nil, err
	}
	games = slices.DeleteFunc(games, func(g *model.Game) bool {
		return g.Type != model.GameTypePublic || !g.IsJoinable()
	})
	slices.SortFunc(games, func(a, b *model.Game) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if errors.Is(err, model.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.game(id))
	pipe.SRem(ctx, s.keys.joinableGamesIndex(), string(id))
	if game.Token != "" {
		pipe.Del(ctx, s.keys.gameTokenIndex(game.Token))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Round operations

func (s *Storage) SaveRound(ctx context.Context, round *model.Round) error {
	data, err := json.Marshal(round)
	if err != nil {
		return err
	}

	key := s.keys.round(round.ID)
	indexKey := s.keys.roundsForGameIndex(round.GameID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.cfg.GameTTL)
	pipe.SAdd(ctx, indexKey, key)
	if s.cfg.GameTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.GameTTL) // Keep index TTL in sync
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRound(ctx context.Context, id model.RoundID) (*model.Round, error) {
	return getJSON[model.Round](ctx, s.client, s.keys.round(id), model.ErrRoundNotFound)
}

func (s *Storage) GetRoundsForGame(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	roundKeys, err := s.client.SMembers(ctx, s.keys.roundsForGameIndex(gameID)).Result()
	if err != nil {
		return nil, err
	}
	rounds, err := mgetJSON[model.Round](ctx, s.client, roundKeys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(rounds, func(a, b *model.Round) int { return cmp.Compare(a.Number, b.Number) })
	return rounds, nil
}

func (s *Storage) DeleteRoundsForGame(ctx context.Context, gameID model.GameID) error {
	return s.deleteIndexed(ctx, s.keys.roundsForGameIndex(gameID))
}

// Hand operations

func (s *Storage) SaveHands(ctx context.Context, hands ...*model.Hand) error {
	if len(hands) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, hand := range hands {
		data, err := json.Marshal(hand)
		if err != nil {
			return err
		}
		key := s.keys.hand(hand.RoundID, hand.PlayerID)
		roundIndex := s.keys.handsForRoundIndex(hand.RoundID)
		gameIndex := s.keys.handsForGameIndex(hand.GameID)

		pipe.Set(ctx, key, data, s.cfg.GameTTL)
		pipe.SAdd(ctx, roundIndex, key)
		pipe.SAdd(ctx, gameIndex, key, roundIndex)
		if s.cfg.GameTTL > 0 {
			pipe.Expire(ctx, roundIndex, s.cfg.GameTTL)
			pipe.Expire(ctx, gameIndex, s.cfg.GameTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error) {
	return getJSON[model.Hand](ctx, s.client, s.keys.hand(roundID, playerID), model.ErrHandNotFound)
}

func (s *Storage) GetHandsForRound(ctx context.Context, roundID model.RoundID) ([]*model.Hand, error) {
	handKeys, err := s.client.SMembers(ctx, s.keys.handsForRoundIndex(roundID)).Result()
	if err != nil {
		return nil, err
	}
	hands, err := mgetJSON[model.Hand](ctx, s.client, handKeys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(hands, func(a, b *model.Hand) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
	return hands, nil
}

// DeleteHandsForGame removes every hand and per-round hand index of a game.
// The game index holds both kinds of key.
func (s *Storage) DeleteHandsForGame(ctx context.Context, gameID model.GameID) error {
	return s.deleteIndexed(ctx, s.keys.handsForGameIndex(gameID))
}

// deleteIndexed deletes every member of an index SET and the SET itself
func (s *Storage) deleteIndexed(ctx context.Context, indexKey string) error {
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, key := range members {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
