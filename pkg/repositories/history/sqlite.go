package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/db/migrations"
	"github.com/fadedpez/blondie/pkg/entities"
)

var historyMigrations = []migrations.Migration{
	{
		Version:     "001",
		Description: "create hand summaries table",
		SQL: `
		CREATE TABLE IF NOT EXISTS hand_summaries (
			game_id TEXT NOT NULL,
			hand_number INTEGER NOT NULL,
			variant TEXT NOT NULL,
			pot_total INTEGER NOT NULL,
			won_by_fold BOOLEAN NOT NULL,
			results TEXT NOT NULL,  -- JSON array of per-player results
			completed_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (game_id, hand_number)
		);
		CREATE INDEX IF NOT EXISTS idx_hand_summaries_game ON hand_summaries(game_id)`,
	},
}

// SQLiteRepository implements the Repository interface using SQLite. The
// (game_id, hand_number) primary key carries the idempotency guarantee; a
// duplicate-key insert is reported as already recorded, not an error.
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

	migrator := migrations.NewMigrator(db, historyMigrations)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// RecordHand stores a summary once per (game, hand number)
func (r *SQLiteRepository) RecordHand(ctx context.Context, summary *entities.HandSummary) (bool, error) {
	results, err := json.Marshal(summary.Results)
	if err != nil {
		return false, types.WrapError(types.ErrInternalError, "Failed to serialize hand results", err)
	}

	query := `
		INSERT INTO hand_summaries (
			game_id, hand_number, variant, pot_total, won_by_fold, results, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		summary.GameID, summary.HandNumber, summary.Variant,
		summary.PotTotal, summary.WonByFold, results, summary.CompletedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return false, nil
		}
		return false, types.WrapError(types.ErrDatabaseError, "Failed to record hand", err)
	}
	return true, nil
}

// GetHandSummaries returns a game's summaries, newest hand first
func (r *SQLiteRepository) GetHandSummaries(ctx context.Context, gameID string, limit int) ([]*entities.HandSummary, error) {
	query := `
		SELECT game_id, hand_number, variant, pot_total, won_by_fold, results, completed_at
		FROM hand_summaries
		WHERE game_id = ?
		ORDER BY hand_number DESC`
	args := []interface{}{gameID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "Failed to load hand summaries", err)
	}
	defer rows.Close()

	var summaries []*entities.HandSummary
	for rows.Next() {
		var (
			summary     entities.HandSummary
			resultsJSON []byte
			completedAt time.Time
		)
		err := rows.Scan(
			&summary.GameID, &summary.HandNumber, &summary.Variant,
			&summary.PotTotal, &summary.WonByFold, &resultsJSON, &completedAt,
		)
		if err != nil {
			return nil, types.WrapError(types.ErrDatabaseError, "Failed to scan hand summary", err)
		}
		if err := json.Unmarshal(resultsJSON, &summary.Results); err != nil {
			return nil, types.WrapError(types.ErrInternalError, "Failed to deserialize hand results", err)
		}
		summary.CompletedAt = completedAt
		summaries = append(summaries, &summary)
	}
	return summaries, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
