package history

import (
	"context"

	"github.com/fadedpez/blondie/pkg/entities"
)

// Repository archives immutable hand summaries. Recording is idempotent per
// (game id, hand number): the first submission stores the record, a repeat
// reports recorded=false without error.
type Repository interface {
	// RecordHand stores a hand summary. recorded is false when the same
	// (game, hand number) was already archived.
	RecordHand(ctx context.Context, summary *entities.HandSummary) (recorded bool, err error)

	// GetHandSummaries returns the most recent summaries for a game, newest
	// first
	GetHandSummaries(ctx context.Context, gameID string, limit int) ([]*entities.HandSummary, error)

	// Close closes any resources used by the repository
	Close() error
}
