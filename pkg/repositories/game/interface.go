package game

import (
	"context"

	"github.com/fadedpez/blondie/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_game

// Repository defines storage operations for game aggregates. Saves are gated
// by optimistic versioning: a Save whose snapshot version no longer matches
// the stored version fails with VERSION_CONFLICT and mutates nothing. The
// store is linearizable per game id; different games are independent.
type Repository interface {
	// Create stores a new game; an existing id is DUPLICATE_GAME
	Create(ctx context.Context, game *entities.Game) error

	// Get loads a game snapshot by id; a missing id is GAME_NOT_FOUND.
	// The returned aggregate is the caller's copy to mutate freely.
	Get(ctx context.Context, gameID string) (*entities.Game, error)

	// Save writes back a mutated snapshot if its version still matches the
	// stored one, then bumps the version. A mismatch is VERSION_CONFLICT.
	Save(ctx context.Context, game *entities.Game) error

	// ListActiveIDs returns the ids of games the scheduler should visit
	// (InProgress or BetweenHands)
	ListActiveIDs(ctx context.Context) ([]string, error)

	// Close closes any resources used by the repository
	Close() error
}
