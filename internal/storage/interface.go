package storage

import (
	"context"

	"github.com/mcoot/dominoes-go/internal/model"
)

// Storage defines the interface for document persistence. Every document
// is read and written whole; there are no cross-document transactions.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGameByToken(ctx context.Context, token string) (*model.Game, error)
	// ListJoinableGames returns public, idle, non-full games, oldest first
	ListJoinableGames(ctx context.Context) ([]*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// Round operations
	SaveRound(ctx context.Context, round *model.Round) error
	GetRound(ctx context.Context, id model.RoundID) (*model.Round, error)
	// GetRoundsForGame returns rounds ordered by number
	GetRoundsForGame(ctx context.Context, gameID model.GameID) ([]*model.Round, error)
	DeleteRoundsForGame(ctx context.Context, gameID model.GameID) error

	// Hand operations
	SaveHands(ctx context.Context, hands ...*model.Hand) error
	GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error)
	GetHandsForRound(ctx context.Context, roundID model.RoundID) ([]*model.Hand, error)
	DeleteHandsForGame(ctx context.Context, gameID model.GameID) error
}
