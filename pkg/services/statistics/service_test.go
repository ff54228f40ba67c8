package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/repositories/history"
)

func recordHand(t *testing.T, repo history.Repository, handNumber int, results ...*entities.PlayerHandResult) {
	t.Helper()
	recorded, err := repo.RecordHand(context.Background(), &entities.HandSummary{
		GameID:      "g1",
		Variant:     "holdem",
		HandNumber:  handNumber,
		PotTotal:    60,
		Results:     results,
		CompletedAt: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, recorded)
}

func TestGetLeaderboardRanksByChipsWon(t *testing.T) {
	repo := history.NewMemoryRepository()
	defer repo.Close()
	svc := NewService(repo)

	recordHand(t, repo, 1,
		&entities.PlayerHandResult{PlayerID: "tuco", Seat: 0, Outcome: entities.OutcomeWon, AmountWon: 60},
		&entities.PlayerHandResult{PlayerID: "angel", Seat: 1, Outcome: entities.OutcomeLost},
		&entities.PlayerHandResult{PlayerID: "blondie", Seat: 2, Outcome: entities.OutcomeFolded, FoldStreet: "PreFlop"},
	)
	recordHand(t, repo, 2,
		&entities.PlayerHandResult{PlayerID: "tuco", Seat: 0, Outcome: entities.OutcomeLost},
		&entities.PlayerHandResult{PlayerID: "angel", Seat: 1, Outcome: entities.OutcomeSplitPotWon, AmountWon: 30},
		&entities.PlayerHandResult{PlayerID: "blondie", Seat: 2, Outcome: entities.OutcomeSplitPotWon, AmountWon: 30},
	)
	recordHand(t, repo, 3,
		&entities.PlayerHandResult{PlayerID: "tuco", Seat: 0, Outcome: entities.OutcomeWon, AmountWon: 60},
		&entities.PlayerHandResult{PlayerID: "angel", Seat: 1, Outcome: entities.OutcomeFolded, FoldStreet: "Flop"},
		&entities.PlayerHandResult{PlayerID: "blondie", Seat: 2, Outcome: entities.OutcomeLost},
	)

	board, err := svc.GetLeaderboard(context.Background(), "g1", 0)
	require.NoError(t, err)
	require.Len(t, board.Players, 3)
	assert.Equal(t, 3, board.HandsCounted)

	top := board.Players[0]
	assert.Equal(t, "tuco", top.PlayerID)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 120, top.ChipsWon)
	assert.Equal(t, 2, top.HandsWon)
	assert.True(t, top.IsTopWinner)
	assert.InDelta(t, 2.0/3.0, top.WinRate, 1e-9)

	// angel and blondie tie on chips; win rate ties too, so id order decides
	assert.Equal(t, "angel", board.Players[1].PlayerID)
	assert.Equal(t, "blondie", board.Players[2].PlayerID)
	assert.False(t, board.Players[1].IsTopWinner)
	assert.Equal(t, 1, board.Players[1].HandsSplit)
	assert.Equal(t, 1, board.Players[1].HandsFolded)
}

func TestGetLeaderboardLimitsToRecentHands(t *testing.T) {
	repo := history.NewMemoryRepository()
	defer repo.Close()
	svc := NewService(repo)

	recordHand(t, repo, 1,
		&entities.PlayerHandResult{PlayerID: "tuco", Seat: 0, Outcome: entities.OutcomeWon, AmountWon: 60},
		&entities.PlayerHandResult{PlayerID: "angel", Seat: 1, Outcome: entities.OutcomeLost},
	)
	recordHand(t, repo, 2,
		&entities.PlayerHandResult{PlayerID: "tuco", Seat: 0, Outcome: entities.OutcomeLost},
		&entities.PlayerHandResult{PlayerID: "angel", Seat: 1, Outcome: entities.OutcomeWon, AmountWon: 60},
	)

	board, err := svc.GetLeaderboard(context.Background(), "g1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, board.HandsCounted)
	require.Len(t, board.Players, 2)
	// Newest first: only hand 2 counts
	assert.Equal(t, "angel", board.Players[0].PlayerID)
	assert.Equal(t, 60, board.Players[0].ChipsWon)
}

func TestGetLeaderboardEmptyGame(t *testing.T) {
	repo := history.NewMemoryRepository()
	defer repo.Close()
	svc := NewService(repo)

	board, err := svc.GetLeaderboard(context.Background(), "missing", 0)
	require.NoError(t, err)
	assert.Empty(t, board.Players)
	assert.Equal(t, 0, board.HandsCounted)
}
