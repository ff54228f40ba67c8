package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/blondie/internal/logging"
)

// fakeTables records maintenance visits and fails the games it is told to
type fakeTables struct {
	mu         sync.Mutex
	ids        []string
	failing    map[string]bool
	maintained []string
}

func (f *fakeTables) ListActiveGameIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeTables) MaintainGame(ctx context.Context, gameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[gameID] {
		return errors.New("boom")
	}
	f.maintained = append(f.maintained, gameID)
	return nil
}

func TestRunPassVisitsEveryGame(t *testing.T) {
	tables := &fakeTables{ids: []string{"g1", "g2", "g3"}}
	s := NewTableScheduler(tables, logging.NewLogger(logging.ERROR), time.Minute)

	require.NoError(t, s.RunPass(context.Background()))
	assert.ElementsMatch(t, []string{"g1", "g2", "g3"}, tables.maintained)
}

func TestRunPassIsolatesFailures(t *testing.T) {
	tables := &fakeTables{
		ids:     []string{"g1", "broken", "g3"},
		failing: map[string]bool{"broken": true},
	}
	s := NewTableScheduler(tables, logging.NewLogger(logging.ERROR), time.Minute)

	// The broken game is logged and skipped; the pass itself succeeds
	require.NoError(t, s.RunPass(context.Background()))
	assert.ElementsMatch(t, []string{"g1", "g3"}, tables.maintained)
}

func TestSchedulerRunsTaskOnInterval(t *testing.T) {
	var mu sync.Mutex
	runs := 0
	s := NewScheduler(logging.NewLogger(logging.ERROR))
	s.AddTask("tick", 5*time.Millisecond, func(ctx context.Context) error {
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	})

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, runs, 2)
}
