package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/db/migrations"
	"github.com/fadedpez/blondie/pkg/entities"
)

// isUniqueViolation reports whether err is a SQLite constraint violation
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

var gameMigrations = []migrations.Migration{
	{
		Version:     "001",
		Description: "create games table",
		SQL: `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			variant TEXT NOT NULL,
			status TEXT NOT NULL,
			version INTEGER NOT NULL,
			state TEXT NOT NULL,  -- JSON snapshot of the aggregate
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_status ON games(status)`,
	},
}

// SQLiteRepository implements the Repository interface using SQLite. The
// aggregate is stored as a JSON snapshot; the version column carries the
// optimistic-concurrency check into the UPDATE's WHERE clause.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	migrator := migrations.NewMigrator(db, gameMigrations)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Create stores a new game
func (r *SQLiteRepository) Create(ctx context.Context, game *entities.Game) error {
	state, err := json.Marshal(game)
	if err != nil {
		return types.WrapError(types.ErrInternalError, "Failed to serialize game", err)
	}

	query := `
		INSERT INTO games (id, variant, status, version, state)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, game.ID, game.Variant, string(game.Status), game.Version, state); err != nil {
		if isUniqueViolation(err) {
			return types.NewGameError(types.ErrDuplicateGame, fmt.Sprintf("Game %s already exists", game.ID))
		}
		return types.WrapError(types.ErrDatabaseError, "Failed to create game", err)
	}
	return nil
}

// Get loads a game snapshot by id
func (r *SQLiteRepository) Get(ctx context.Context, gameID string) (*entities.Game, error) {
	var state []byte
	query := `SELECT state FROM games WHERE id = ?`

	err := r.db.QueryRowContext(ctx, query, gameID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
	}
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "Failed to load game", err)
	}

	var game entities.Game
	if err := json.Unmarshal(state, &game); err != nil {
		return nil, types.WrapError(types.ErrInternalError, "Failed to deserialize game", err)
	}
	return &game, nil
}

// Save writes back a snapshot; the version check rides in the WHERE clause
// so the compare-and-swap is a single statement
func (r *SQLiteRepository) Save(ctx context.Context, game *entities.Game) error {
	game.Version++
	state, err := json.Marshal(game)
	if err != nil {
		game.Version--
		return types.WrapError(types.ErrInternalError, "Failed to serialize game", err)
	}

	query := `
		UPDATE games
		SET variant = ?, status = ?, version = ?, state = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?`

	res, err := r.db.ExecContext(ctx, query,
		game.Variant, string(game.Status), game.Version, state, game.ID, game.Version-1)
	if err != nil {
		game.Version--
		return types.WrapError(types.ErrDatabaseError, "Failed to save game", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		game.Version--
		return types.WrapError(types.ErrDatabaseError, "Failed to save game", err)
	}
	if affected == 0 {
		game.Version--
		// Distinguish a missing row from a stale version
		var exists int
		if scanErr := r.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, game.ID).Scan(&exists); scanErr == sql.ErrNoRows {
			return types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", game.ID))
		}
		return types.NewGameError(types.ErrVersionConflict,
			fmt.Sprintf("Game %s was modified concurrently (version %d)", game.ID, game.Version))
	}
	return nil
}

// ListActiveIDs returns ids of games the scheduler should visit
func (r *SQLiteRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM games WHERE status IN (?, ?)`

	rows, err := r.db.QueryContext(ctx, query,
		string(entities.StatusInProgress), string(entities.StatusBetweenHands))
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "Failed to list games", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "Failed to scan game id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
