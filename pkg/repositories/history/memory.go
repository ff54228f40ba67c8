package history

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/blondie/pkg/entities"
)

// MemoryRepository implements the Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// Map of gameID to hand number to summary
	hands map[string]map[int]*entities.HandSummary
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		hands: make(map[string]map[int]*entities.HandSummary),
	}
}

// RecordHand stores a summary once per (game, hand number)
func (r *MemoryRepository) RecordHand(ctx context.Context, summary *entities.HandSummary) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byHand, exists := r.hands[summary.GameID]
	if !exists {
		byHand = make(map[int]*entities.HandSummary)
		r.hands[summary.GameID] = byHand
	}
	if _, exists := byHand[summary.HandNumber]; exists {
		return false, nil
	}
	byHand[summary.HandNumber] = summary
	return true, nil
}

// GetHandSummaries returns a game's summaries, newest hand first
func (r *MemoryRepository) GetHandSummaries(ctx context.Context, gameID string, limit int) ([]*entities.HandSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byHand := r.hands[gameID]
	summaries := make([]*entities.HandSummary, 0, len(byHand))
	for _, s := range byHand {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].HandNumber > summaries[j].HandNumber
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
