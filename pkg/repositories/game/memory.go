package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
)

// MemoryRepository implements the Repository interface with in-memory
// storage. Games are stored serialized so every Get hands back an isolated
// snapshot, matching the durable implementations.
type MemoryRepository struct {
	mu    sync.RWMutex
	games map[string][]byte
	// versions tracks the stored version separately so Save can compare
	// without deserializing
	versions map[string]int64
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		games:    make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

// Create stores a new game
func (r *MemoryRepository) Create(ctx context.Context, game *entities.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[game.ID]; exists {
		return types.NewGameError(types.ErrDuplicateGame, fmt.Sprintf("Game %s already exists", game.ID))
	}

	data, err := json.Marshal(game)
	if err != nil {
		return types.WrapError(types.ErrInternalError, "Failed to serialize game", err)
	}
	r.games[game.ID] = data
	r.versions[game.ID] = game.Version
	return nil
}

// Get loads an isolated snapshot of a game
func (r *MemoryRepository) Get(ctx context.Context, gameID string) (*entities.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, exists := r.games[gameID]
	if !exists {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", gameID))
	}

	var game entities.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, types.WrapError(types.ErrInternalError, "Failed to deserialize game", err)
	}
	return &game, nil
}

// Save writes back a snapshot if its version is still current
func (r *MemoryRepository) Save(ctx context.Context, game *entities.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.versions[game.ID]
	if !exists {
		return types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("Game %s not found", game.ID))
	}
	if stored != game.Version {
		return types.NewGameError(types.ErrVersionConflict,
			fmt.Sprintf("Game %s was modified concurrently (version %d, stored %d)", game.ID, game.Version, stored))
	}

	game.Version++
	data, err := json.Marshal(game)
	if err != nil {
		game.Version--
		return types.WrapError(types.ErrInternalError, "Failed to serialize game", err)
	}
	r.games[game.ID] = data
	r.versions[game.ID] = game.Version
	return nil
}

// ListActiveIDs returns ids of games the scheduler should visit
func (r *MemoryRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.games))
	for id, data := range r.games {
		var game entities.Game
		if err := json.Unmarshal(data, &game); err != nil {
			continue
		}
		if game.Status == entities.StatusInProgress || game.Status == entities.StatusBetweenHands {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
