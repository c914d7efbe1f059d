package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/dominoes-go/internal/dependencies/mocks"
	"github.com/mcoot/dominoes-go/internal/dependencies/random"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, random.New(), DefaultConfig())
	s.ctx = context.Background()
}

// CreateGuestPlayer tests

func (s *ServiceSuite) TestCreateGuestPlayerSucceeds() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.True(strings.HasPrefix(session.Token, "sess_"))
	s.True(strings.HasPrefix(string(session.PlayerID), "p_"))
	s.Equal("Alice", session.Player.DisplayName)
	s.True(session.Player.IsGuest)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestCreateGuestPlayerPersistsPlayerAndSession() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	player, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)

	stored, err := s.storage.GetSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.PlayerID, stored.PlayerID)
}

func (s *ServiceSuite) TestGuestIDsAreDistinct() {
	first, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")
	second, _ := s.service.CreateGuestPlayer(s.ctx, "Bob")

	s.NotEqual(first.PlayerID, second.PlayerID)
	s.NotEqual(first.Token, second.Token)
}

func (s *ServiceSuite) TestDeterministicIDsFromRandomSource() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("fixedplayerid000", "fixedtoken")
	service := New(s.storage, s.clock, rnd, DefaultConfig())

	session, err := service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_fixedplayerid000"), session.PlayerID)
	s.Equal("sess_fixedtoken", session.Token)
}

// RegisterPlayer tests

func (s *ServiceSuite) TestRegisterPlayerSucceeds() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Player.DisplayName)
	s.False(session.Player.IsGuest)
}

func (s *ServiceSuite) TestRegisterPlayerDefaultsDisplayName() {
	session, err := s.service.RegisterPlayer(s.ctx, "alice", "password123", "")
	s.Require().NoError(err)
	s.Equal("alice", session.Player.DisplayName)
}

func (s *ServiceSuite) TestRegisterPlayerPersistsRegistration() {
	_, _ = s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", rp.Username)
	s.NotEmpty(rp.PasswordHash)
	s.NotEqual("password123", rp.PasswordHash) // Should be hashed
}

func (s *ServiceSuite) TestRegisterPlayerFailsIfUsernameExists() {
	_, _ = s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.RegisterPlayer(s.ctx, "alice", "different", "Alice2")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterPlayerValidatesInput() {
	_, err := s.service.RegisterPlayer(s.ctx, "  ", "password123", "Alice")
	s.ErrorIs(err, ErrInvalidUsername)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "abc", "Alice")
	s.ErrorIs(err, ErrPasswordTooShort)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, _ := s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEqual(registered.Token, session.Token)
	s.Equal(registered.PlayerID, session.PlayerID)
	s.Equal("Alice", session.Player.DisplayName)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, _ = s.service.RegisterPlayer(s.ctx, "alice", "password123", "Alice")

	_, err := s.service.Login(s.ctx, "alice", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	validated, err := s.service.ValidateSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
	s.Equal("Alice", validated.Player.DisplayName)
}

func (s *ServiceSuite) TestValidateSessionSeesPlayerUpdates() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	player, _ := s.storage.GetPlayer(s.ctx, session.PlayerID)
	player.CurrentGame = "game-1"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	validated, err := s.service.ValidateSession(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), validated.Player.CurrentGame)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession(s.ctx, "invalid_token")
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(s.ctx, "")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.storage.GetSession(s.ctx, session.Token)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenPlayerDeleted() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, session.PlayerID))

	_, err := s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCustomSessionDuration() {
	service := New(s.storage, s.clock, random.New(), Config{SessionDuration: time.Minute})
	session, _ := service.CreateGuestPlayer(s.ctx, "Alice")

	s.clock.Advance(2 * time.Minute)
	_, err := service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

// InvalidateSession tests

func (s *ServiceSuite) TestInvalidateSessionRemovesSession() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	s.Require().NoError(s.service.InvalidateSession(s.ctx, session.Token))

	_, err := s.service.ValidateSession(s.ctx, session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionNoopForUnknownToken() {
	s.NoError(s.service.InvalidateSession(s.ctx, "unknown_token"))
}

// GetPlayer tests

func (s *ServiceSuite) TestGetPlayerSucceeds() {
	session, _ := s.service.CreateGuestPlayer(s.ctx, "Alice")

	player, err := s.service.GetPlayer(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
}

func (s *ServiceSuite) TestGetPlayerFailsWithInvalidToken() {
	_, err := s.service.GetPlayer(s.ctx, "invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}
