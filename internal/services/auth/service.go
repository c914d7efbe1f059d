package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/dominoes-go/internal/dependencies/clock"
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("username must not be empty")
	ErrPasswordTooShort   = errors.New("password is too short")
)

const (
	idLength         = 16
	tokenLength      = 32
	minPasswordBytes = 6
)

// Session is a stored session joined with the player it belongs to
type Session struct {
	model.Session
	Player model.Player
}

// Service handles authentication and session management.
// Sessions live in storage so every backend shares them across restarts.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration `yaml:"sessionDuration"`
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(storage storage.Storage, clock clock.Clock, rnd random.Random, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		random:          rnd,
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuestPlayer creates an anonymous player and session
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	player := &model.Player{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return s.createSession(ctx, player)
}

// RegisterPlayer creates a registered player account and session
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordBytes {
		return nil, ErrPasswordTooShort
	}
	if displayName == "" {
		displayName = username
	}

	_, err := s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		IsGuest:     false,
		CreatedAt:   now,
	}
	registeredPlayer := &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, registeredPlayer); err != nil {
		return nil, err
	}

	return s.createSession(ctx, player)
}

// Login authenticates a registered player and creates a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}

	return s.createSession(ctx, player)
}

// ValidateSession checks a session token and returns the session with a
// fresh copy of its player. Expired sessions are deleted on sight.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	stored, err := s.storage.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if s.clock.Now().After(stored.ExpiresAt) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, ErrInvalidSession
	}

	player, err := s.storage.GetPlayer(ctx, stored.PlayerID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			_ = s.storage.DeleteSession(ctx, token)
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return &Session{Session: *stored, Player: *player}, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	return s.storage.DeleteSession(ctx, token)
}

// GetPlayer returns the player for a session token
func (s *Service) GetPlayer(ctx context.Context, token string) (*model.Player, error) {
	session, err := s.ValidateSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &session.Player, nil
}

func (s *Service) createSession(ctx context.Context, player *model.Player) (*Session, error) {
	now := s.clock.Now()
	stored := model.Session{
		Token:     "sess_" + s.random.String(tokenLength, random.AlphabetID),
		PlayerID:  player.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.storage.SaveSession(ctx, &stored); err != nil {
		return nil, err
	}

	return &Session{Session: stored, Player: *player}, nil
}

func (s *Service) newPlayerID() model.PlayerID {
	return model.PlayerID("p_" + s.random.String(idLength, random.AlphabetID))
}

// ServiceInterface is the surface the HTTP layer depends on
type ServiceInterface interface {
	CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error)
	RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	InvalidateSession(ctx context.Context, token string) error
	GetPlayer(ctx context.Context, token string) (*model.Player, error)
}

var _ ServiceInterface = (*Service)(nil)
