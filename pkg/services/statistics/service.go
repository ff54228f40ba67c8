package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/repositories/history"
)

// Service derives per-player statistics from a game's archived hand
// summaries
type Service struct {
	history history.Repository
}

// NewService creates a new statistics service
func NewService(repo history.Repository) *Service {
	return &Service{
		history: repo,
	}
}

// PlayerStats aggregates one player's results across the hands of a game
type PlayerStats struct {
	PlayerID    string  `json:"playerId"`
	HandsPlayed int     `json:"handsPlayed"`
	HandsWon    int     `json:"handsWon"`
	HandsSplit  int     `json:"handsSplit"`
	HandsFolded int     `json:"handsFolded"`
	ChipsWon    int     `json:"chipsWon"`
	WinRate     float64 `json:"winRate"`
	Rank        int     `json:"rank"`
	IsTopWinner bool    `json:"isTopWinner"`
}

// Leaderboard ranks every player seen in a game's recent hands
type Leaderboard struct {
	GameID       string         `json:"gameId"`
	Players      []*PlayerStats `json:"players"`
	HandsCounted int            `json:"handsCounted"`
	LastUpdated  time.Time      `json:"lastUpdated"`
}

// GetLeaderboard aggregates the last limit hands of a game into a ranked
// leaderboard. limit <= 0 counts every archived hand.
func (s *Service) GetLeaderboard(ctx context.Context, gameID string, limit int) (*Leaderboard, error) {
	summaries, err := s.history.GetHandSummaries(ctx, gameID, limit)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string]*PlayerStats)
	for _, summary := range summaries {
		for _, result := range summary.Results {
			stats, ok := byPlayer[result.PlayerID]
			if !ok {
				stats = &PlayerStats{PlayerID: result.PlayerID}
				byPlayer[result.PlayerID] = stats
			}
			stats.HandsPlayed++
			stats.ChipsWon += result.AmountWon
			switch result.Outcome {
			case entities.OutcomeWon:
				stats.HandsWon++
			case entities.OutcomeSplitPotWon:
				stats.HandsWon++
				stats.HandsSplit++
			case entities.OutcomeFolded:
				stats.HandsFolded++
			}
		}
	}

	players := make([]*PlayerStats, 0, len(byPlayer))
	for _, stats := range byPlayer {
		stats.WinRate = float64(stats.HandsWon) / float64(stats.HandsPlayed)
		players = append(players, stats)
	}

	// Rank by chips won, ties broken by win rate then id for stability
	sort.Slice(players, func(i, j int) bool {
		if players[i].ChipsWon != players[j].ChipsWon {
			return players[i].ChipsWon > players[j].ChipsWon
		}
		if players[i].WinRate != players[j].WinRate {
			return players[i].WinRate > players[j].WinRate
		}
		return players[i].PlayerID < players[j].PlayerID
	})
	for i, stats := range players {
		stats.Rank = i + 1
	}
	if len(players) > 0 && players[0].ChipsWon > 0 {
		players[0].IsTopWinner = true
	}

	return &Leaderboard{
		GameID:       gameID,
		Players:      players,
		HandsCounted: len(summaries),
		LastUpdated:  time.Now(),
	}, nil
}
