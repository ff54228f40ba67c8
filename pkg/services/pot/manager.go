package pot

import (
	"fmt"
	"sort"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
)

// Manager aggregates hand contributions into a main pot and, when players
// are all-in for different amounts, side pots with their own eligible sets.
type Manager struct{}

// NewManager creates a pot manager
func NewManager() *Manager {
	return &Manager{}
}

// Total returns the combined amount of all unawarded pots for the hand
func (m *Manager) Total(game *entities.Game) int {
	total := 0
	for _, p := range game.Pots {
		if !p.Awarded {
			total += p.Amount
		}
	}
	return total
}

// BuildPots recomputes the hand's pot structure from each player's total
// contribution. Called once betting closes, not incrementally: contributions
// are collected in layers bounded by each all-in player's total, the bottom
// layer is the main pot, and every all-in threshold crossed spawns a side
// pot whose eligible set is limited to players who contributed at least that
// layer and have not folded.
func (m *Manager) BuildPots(game *entities.Game) []*entities.Pot {
	// Distinct all-in contribution levels, ascending
	var levels []int
	for _, p := range game.Players {
		if !p.AllIn || p.TotalContributed == 0 {
			continue
		}
		if !containsInt(levels, p.TotalContributed) {
			levels = append(levels, p.TotalContributed)
		}
	}
	sort.Ints(levels)

	var pots []*entities.Pot
	prev := 0
	for _, level := range levels {
		pot := m.layerPot(game, prev, level)
		if pot != nil {
			pots = append(pots, pot)
		}
		prev = level
	}

	// Everything above the highest all-in threshold
	if top := m.layerPot(game, prev, -1); top != nil {
		pots = append(pots, top)
	}

	for i, pot := range pots {
		if i == 0 {
			pot.Type = entities.PotMain
		} else {
			pot.Type = entities.PotSide
			pot.SideIndex = i
		}
	}

	// Preserve pots already awarded earlier in the hand
	for _, p := range game.Pots {
		if p.Awarded {
			pots = append(pots, p)
		}
	}
	game.Pots = pots
	return pots
}

// layerPot builds the pot for contributions between floor (exclusive) and
// ceiling (inclusive). A ceiling of -1 means unbounded.
func (m *Manager) layerPot(game *entities.Game, floor, ceiling int) *entities.Pot {
	amount := 0
	var eligible []int
	for _, p := range game.Players {
		contrib := p.TotalContributed
		capped := contrib
		if ceiling >= 0 && capped > ceiling {
			capped = ceiling
		}
		if capped > floor {
			amount += capped - floor
		}
		if p.InHand() && (ceiling < 0 && contrib > floor || ceiling >= 0 && contrib >= ceiling) {
			eligible = append(eligible, p.Seat)
		}
	}
	if amount == 0 {
		return nil
	}
	return &entities.Pot{
		HandNumber: game.HandNumber,
		Amount:     amount,
		Eligible:   eligible,
	}
}

// AwardPot splits the pot evenly among the winning seats and credits their
// stacks. Any indivisible remainder is assigned one chip at a time starting
// from the seat immediately after the dealer, proceeding clockwise; the
// ordering is deterministic so an audit can reproduce it.
func (m *Manager) AwardPot(game *entities.Game, pot *entities.Pot, winnerSeats []int) error {
	if pot.Awarded {
		return types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("%s pot already awarded", pot.Label()))
	}
	if len(winnerSeats) == 0 {
		return types.NewGameError(types.ErrInvalidAction, "cannot award a pot to no one")
	}
	for _, seat := range winnerSeats {
		if len(pot.Eligible) > 0 && !pot.IsEligible(seat) {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("seat %d is not eligible for the %s pot", seat, pot.Label()))
		}
		if game.Player(seat) == nil {
			return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("no player at seat %d", seat))
		}
	}

	share := pot.Amount / len(winnerSeats)
	remainder := pot.Amount % len(winnerSeats)

	winners := make(map[int]int, len(winnerSeats))
	for _, seat := range winnerSeats {
		winners[seat] = share
	}

	// Odd chips go to winners in clockwise order from the seat after the dealer
	for _, seat := range game.SeatsFrom(game.DealerSeat) {
		if remainder == 0 {
			break
		}
		if _, ok := winners[seat]; ok {
			winners[seat]++
			remainder--
		}
	}

	for seat, amount := range winners {
		game.Player(seat).Chips += amount
	}
	pot.Awarded = true
	pot.Winners = winners
	return nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
