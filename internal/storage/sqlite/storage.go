// Package sqlite persists documents in a single SQLite file using the
// pure-Go modernc.org/sqlite driver. Each document is stored as JSON next to
// the handful of columns needed for lookups.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/storage"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open creates or opens a database at the given path and runs migrations.
// A leading ~ expands to the home directory.
func Open(path string) (*Storage, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases whole
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return s, nil
}

// migrate creates the database schema if it doesn't exist
func (s *Storage) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS registered_players (
			username TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			player_id TEXT NOT NULL,
			data TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			token TEXT,
			joinable INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			data TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_token ON games(token);
		CREATE INDEX IF NOT EXISTS idx_games_joinable ON games(joinable, created_at);

		CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			number INTEGER NOT NULL,
			data TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id, number);

		CREATE TABLE IF NOT EXISTS hands (
			round_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (round_id, player_id)
		);
		CREATE INDEX IF NOT EXISTS idx_hands_game_id ON hands(game_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode document: %w", err)
	}
	return string(data), nil
}

// getOne scans a single data column into a document
func getOne[T any](ctx context.Context, db *sql.DB, notFound error, query string, args ...any) (*T, error) {
	var data string
	if err := db.QueryRowContext(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("storage: query failed: %w", err)
	}
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("storage: cannot decode document: %w", err)
	}
	return &out, nil
}

// getMany scans every row's data column into documents
func getMany[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query failed: %w", err)
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		var doc T
		if err := json.Unmarshal([]byte(data), &doc); err != nil {
			return nil, fmt.Errorf("storage: cannot decode document: %w", err)
		}
		out = append(out, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("storage: exec failed: %w", err)
	}
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := encode(player)
	if err != nil {
		return err
	}
	return s.exec(ctx,
		`INSERT INTO players (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		player.ID, data)
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getOne[model.Player](ctx, s.db, model.ErrPlayerNotFound,
		`SELECT data FROM players WHERE id = ?`, id)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.exec(ctx, `DELETE FROM players WHERE id = ?`, id)
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := encode(rp)
	if err != nil {
		return err
	}
	return s.exec(ctx,
		`INSERT INTO registered_players (username, player_id, data) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET player_id = excluded.player_id, data = excluded.data`,
		rp.Username, rp.PlayerID, data)
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return getOne[model.RegisteredPlayer](ctx, s.db, model.ErrPlayerNotFound,
		`SELECT data FROM registered_players WHERE username = ?`, username)
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	return s.exec(ctx,
		`INSERT INTO sessions (token, player_id, data) VALUES (?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET data = excluded.data`,
		session.Token, session.PlayerID, data)
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	return getOne[model.Session](ctx, s.db, model.ErrSessionNotFound,
		`SELECT data FROM sessions WHERE token = ?`, token)
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token)
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := encode(game)
	if err != nil {
		return err
	}
	joinable := game.Type == model.GameTypePublic && game.IsJoinable()
	var token sql.NullString
	if game.Token != "" {
		token = sql.NullString{String: game.Token, Valid: true}
	}
	return s.exec(ctx,
		`INSERT INTO games (id, token, joinable, created_at, data) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, joinable = excluded.joinable, data = excluded.data`,
		game.ID, token, joinable, game.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z"), data)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getOne[model.Game](ctx, s.db, model.ErrGameNotFound,
		`SELECT data FROM games WHERE id = ?`, id)
}

func (s *Storage) GetGameByToken(ctx context.Context, token string) (*model.Game, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}
	return getOne[model.Game](ctx, s.db, model.ErrInvalidToken,
		`SELECT data FROM games WHERE token = ? LIMIT 1`, token)
}

func (s *Storage) ListJoinableGames(ctx context.Context) ([]*model.Game, error) {
	return getMany[model.Game](ctx, s.db,
		`SELECT data FROM games WHERE joinable = 1 ORDER BY created_at, id`)
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	return s.exec(ctx, `DELETE FROM games WHERE id = ?`, id)
}

// Round operations

func (s *Storage) SaveRound(ctx context.Context, round *model.Round) error {
	data, err := encode(round)
	if err != nil {
		return err
	}
	return s.exec(ctx,
		`INSERT INTO rounds (id, game_id, number, data) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		round.ID, round.GameID, round.Number, data)
}

func (s *Storage) GetRound(ctx context.Context, id model.RoundID) (*model.Round, error) {
	return getOne[model.Round](ctx, s.db, model.ErrRoundNotFound,
		`SELECT data FROM rounds WHERE id = ?`, id)
}

func (s *Storage) GetRoundsForGame(ctx context.Context, gameID model.GameID) ([]*model.Round, error) {
	return getMany[model.Round](ctx, s.db,
		`SELECT data FROM rounds WHERE game_id = ? ORDER BY number`, gameID)
}

func (s *Storage) DeleteRoundsForGame(ctx context.Context, gameID model.GameID) error {
	return s.exec(ctx, `DELETE FROM rounds WHERE game_id = ?`, gameID)
}

// Hand operations

// SaveHands writes every hand in one transaction
func (s *Storage) SaveHands(ctx context.Context, hands ...*model.Hand) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, hand := range hands {
		data, err := encode(hand)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hands (round_id, player_id, game_id, data) VALUES (?, ?, ?, ?)
			 ON CONFLICT(round_id, player_id) DO UPDATE SET data = excluded.data`,
			hand.RoundID, hand.PlayerID, hand.GameID, data); err != nil {
			return fmt.Errorf("storage: cannot save hand: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit hands: %w", err)
	}
	return nil
}

func (s *Storage) GetHand(ctx context.Context, roundID model.RoundID, playerID model.PlayerID) (*model.Hand, error) {
	return getOne[model.Hand](ctx, s.db, model.ErrHandNotFound,
		`SELECT data FROM hands WHERE round_id = ? AND player_id = ?`, roundID, playerID)
}

func (s *Storage) GetHandsForRound(ctx context.Context, roundID model.RoundID) ([]*model.Hand, error) {
	return getMany[model.Hand](ctx, s.db,
		`SELECT data FROM hands WHERE round_id = ? ORDER BY player_id`, roundID)
}

func (s *Storage) DeleteHandsForGame(ctx context.Context, gameID model.GameID) error {
	return s.exec(ctx, `DELETE FROM hands WHERE game_id = ?`, gameID)
}
