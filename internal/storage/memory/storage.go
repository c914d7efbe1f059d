package memory

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[string]*model.RegisteredPlayer // by username
	sessions          map[string]*model.Session
	games             map[model.GameID]*model.Game
	rounds            map[model.RoundID]*model.Round
	hands             map[handKey]*model.Hand
}

type handKey struct {
	roundID  model.RoundID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[string]*model.RegisteredPlayer),
		sessions:          make(map[string]*model.Session),
		games:             make(map[model.GameID]*model.Game),
		rounds:            make(map[model.RoundID]*model.Round),
		hands:             make(map[handKey]*model.Hand),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// clone deep-copies a document through its JSON form, the same encoding the
// other backends persist
func clone[T any](v *T) *T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		panic(err)
	}
	return &out
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = clone(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(player), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.Username] = clone(rp)
	return nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return clone(rp), nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = clone(session)
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return clone(session), nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = clone(game)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return clone(game), nil
}

func (s *Storage) GetGameByToken(ctx context.Context, token string) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, game := range s.games {
		if token != "" && game.Token == token {
			return clone(game), nil
		}
	}
	return nil, model.ErrInvalidToken
}

func (s *Storage) ListJoinableGames(ctx context.Context) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	games := make([]*model.Game, 0)
	for _, game := range s.games {
		if game.Type == model.GameTypePublic && game.IsJoinable() {
			games = append(games, clone(game))
		}
	}
	sortGames(games)
	return games, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Round operations

func (s *Storage) SaveRound(ctx context.Context, round *model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.ID] = clone(round)
	return nil
}

func (s *Storage) GetRound(ctx context.Context, id model.RoundID) (*model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[id]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	return clone(round), nil
}

func (s *Storage) GetRoundsForGame(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rounds := make([]*model.Round, 0)
	for _, round := range s.rounds {
		if round.GameID == gameID {
			rounds = append(rounds, clone(round))
		}
	}
	slices.SortFunc(rounds, func(a, b *model.Round) int { return cmp.Compare(a.Number, b.Number) })
	return rounds, nil
}

func (s *Storage) DeleteRoundsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, round := range s.rounds {
		if round.GameID == gameID {
			delete(s.rounds, id)
		}
	}
	return nil
}

// Hand operations

func (s *Storage) SaveHands(ctx context.Context, hands ...*model.Hand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, hand := range hands {
		s.hands[handKey{hand.RoundID, hand.PlayerID}] = clone(hand)
	}
	return nil
}

func (s *Storage) GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hand, ok := s.hands[handKey{roundID, playerID}]
	if !ok {
		return nil, model.ErrHandNotFound
	}
	return clone(hand), nil
}

func (s *Storage) GetHandsForRound(ctx context.Context, roundID model.RoundID) ([]*model.Hand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hands := make([]*model.Hand, 0, model.PlayersPerGame)
	for key, hand := range s.hands {
		if key.roundID == roundID {
			hands = append(hands, clone(hand))
		}
	}
	slices.SortFunc(hands, func(a, b *model.Hand) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
	return hands, nil
}

func (s *Storage) DeleteHandsForGame(ctx context.Context, gameID model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, hand := range s.hands {
		if hand.GameID == gameID {
			delete(s.hands, key)
		}
	}
	return nil
}

func sortGames(games []*model.Game) {
	slices.SortFunc(games, func(a, b *model.Game) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
