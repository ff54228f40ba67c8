package showdown

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	potsvc "github.com/fadedpez/blondie/pkg/services/pot"
)

// ShowOrder decides who reveals first at showdown
type ShowOrder string

const (
	// ShowOrderLastAggressor makes the final bettor/raiser show first
	ShowOrderLastAggressor ShowOrder = "LAST_AGGRESSOR"
	// ShowOrderClockwiseFromButton starts left of the dealer
	ShowOrderClockwiseFromButton ShowOrder = "CLOCKWISE_FROM_BUTTON"
)

// Rules is the per-variant showdown ruleset
type Rules struct {
	ShowOrder          ShowOrder
	AllowMuck          bool
	ShowAllOnAllIn     bool
	EnforceRevealOrder bool
}

// RevealStatus is one player's progress through the showdown state machine:
// Pending -> Shown | ForcedReveal | Mucked (Folded players never leave Folded)
type RevealStatus string

const (
	StatusPending      RevealStatus = "PENDING"
	StatusShown        RevealStatus = "SHOWN"
	StatusForcedReveal RevealStatus = "FORCED_REVEAL"
	StatusMucked       RevealStatus = "MUCKED"
	StatusFolded       RevealStatus = "FOLDED"
)

// PlayerState tracks one seat through the showdown
type PlayerState struct {
	Seat        int
	Status      RevealStatus
	Hand        *poker.Strength
	RevealOrder int // sequence number assigned at reveal time; 0 = not revealed
}

// Context is the ephemeral showdown aggregate. It is built fresh when a hand
// reaches showdown, mutated by reveal/muck actions, and discarded once
// winners are determined; its conclusions are persisted by collaborators,
// never the context itself.
type Context struct {
	ID            string
	GameID        string
	HandNumber    int
	Rules         Rules
	LastAggressor int // seat; -1 when nobody bet or raised
	HadAllIn      bool
	DealerSeat    int

	order     []int // seats in reveal order
	players   map[int]*PlayerState
	revealSeq int
	Complete  bool
}

// Players returns the per-seat showdown states keyed by seat
func (c *Context) Players() map[int]*PlayerState {
	return c.players
}

// Service coordinates reveals, mucks, and winner determination at showdown
type Service struct {
	pots *potsvc.Manager
}

// NewService creates a showdown service backed by the given pot manager
func NewService(pots *potsvc.Manager) *Service {
	return &Service{pots: pots}
}

// InitializeShowdown builds the showdown context for a hand: folded players
// are seeded Folded, everyone else Pending, and the reveal order is computed
// from the ruleset's ShowOrder.
func (s *Service) InitializeShowdown(rules Rules, game *entities.Game) *Context {
	ctx := &Context{
		ID:            uuid.New().String(),
		GameID:        game.ID,
		HandNumber:    game.HandNumber,
		Rules:         rules,
		LastAggressor: game.LastAggressor,
		HadAllIn:      game.HadAllIn,
		DealerSeat:    game.DealerSeat,
		players:       make(map[int]*PlayerState),
	}

	for _, p := range game.Players {
		if p.Left {
			continue
		}
		status := StatusPending
		if p.Folded || p.SittingOut {
			status = StatusFolded
		}
		ctx.players[p.Seat] = &PlayerState{Seat: p.Seat, Status: status}
	}

	ctx.order = s.revealOrder(ctx, game)
	return ctx
}

// revealOrder lists live seats starting from the ruleset's anchor seat
func (s *Service) revealOrder(ctx *Context, game *entities.Game) []int {
	anchor := game.DealerSeat // ClockwiseFromButton starts after the dealer
	if ctx.Rules.ShowOrder == ShowOrderLastAggressor && ctx.LastAggressor != -1 {
		// The aggressor shows first, so order starts at the seat before it
		anchor = ctx.LastAggressor - 1
	}

	var order []int
	if ctx.Rules.ShowOrder == ShowOrderLastAggressor && ctx.LastAggressor != -1 {
		order = append(order, ctx.LastAggressor)
	}
	for _, seat := range game.SeatsFrom(anchor) {
		if len(order) > 0 && seat == order[0] {
			continue
		}
		if state, ok := ctx.players[seat]; ok && state.Status != StatusFolded {
			order = append(order, seat)
		}
	}
	// Drop folded seats that slipped in via the anchor seed
	filtered := order[:0]
	for _, seat := range order {
		if state, ok := ctx.players[seat]; ok && state.Status != StatusFolded {
			filtered = append(filtered, seat)
		}
	}
	return filtered
}

// GetNextToReveal returns the next Pending seat in reveal order, or -1 when
// no Pending players remain
func (s *Service) GetNextToReveal(ctx *Context) int {
	for _, seat := range ctx.order {
		if ctx.players[seat].Status == StatusPending {
			return seat
		}
	}
	return -1
}

// MustPlayerReveal reports whether the seat has no choice but to show:
// mucking is disallowed, an all-in forced a full reveal, or the seat is
// first in reveal order (the last-aggressor rule).
func (s *Service) MustPlayerReveal(ctx *Context, seat int) bool {
	state, ok := ctx.players[seat]
	if !ok || state.Status == StatusFolded {
		return false
	}
	if !ctx.Rules.AllowMuck {
		return true
	}
	if ctx.HadAllIn && ctx.Rules.ShowAllOnAllIn {
		return true
	}
	return len(ctx.order) > 0 && ctx.order[0] == seat
}

// CanPlayerMuck is the negation of MustPlayerReveal, constrained to Pending
// players only
func (s *Service) CanPlayerMuck(ctx *Context, seat int) bool {
	state, ok := ctx.players[seat]
	if !ok || state.Status != StatusPending {
		return false
	}
	return !s.MustPlayerReveal(ctx, seat)
}

// ProcessReveal records a player's revealed hand. Rejected for folded
// players, and for out-of-turn reveals when the ruleset enforces order.
func (s *Service) ProcessReveal(ctx *Context, seat int, hand poker.Strength) error {
	state, ok := ctx.players[seat]
	if !ok {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("seat %d is not in this showdown", seat))
	}
	if state.Status == StatusFolded {
		return types.NewGameError(types.ErrPlayerFolded, "folded players have nothing to reveal")
	}
	if state.Status != StatusPending {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("seat %d has already acted", seat))
	}
	if ctx.Rules.EnforceRevealOrder {
		if next := s.GetNextToReveal(ctx); next != seat {
			return types.NewGameError(types.ErrRevealOutOfOrder,
				fmt.Sprintf("seat %d revealed but seat %d is next", seat, next))
		}
	}

	ctx.revealSeq++
	state.RevealOrder = ctx.revealSeq
	state.Hand = &hand
	if s.MustPlayerReveal(ctx, seat) {
		state.Status = StatusForcedReveal
	} else {
		state.Status = StatusShown
	}
	s.checkComplete(ctx)
	return nil
}

// ProcessMuck declines to reveal, forfeiting any claim to contested pots
func (s *Service) ProcessMuck(ctx *Context, seat int) error {
	state, ok := ctx.players[seat]
	if !ok {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("seat %d is not in this showdown", seat))
	}
	if state.Status != StatusPending {
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("seat %d has already acted", seat))
	}
	if !ctx.Rules.AllowMuck {
		return types.NewGameError(types.ErrMuckNotAllowed, "mucking is disabled for this game")
	}
	if s.MustPlayerReveal(ctx, seat) {
		return types.NewGameError(types.ErrMuckNotAllowed, fmt.Sprintf("seat %d must show", seat))
	}

	state.Status = StatusMucked
	s.checkComplete(ctx)
	return nil
}

// AutoRevealWinner is the administrative override used during all-in
// fast-forwards: the seat is shown regardless of turn order
func (s *Service) AutoRevealWinner(ctx *Context, seat int, hand poker.Strength) error {
	state, ok := ctx.players[seat]
	if !ok {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("seat %d is not in this showdown", seat))
	}
	if state.Status == StatusFolded {
		return types.NewGameError(types.ErrPlayerFolded, "folded players cannot be auto-revealed")
	}
	if state.Status != StatusPending {
		return nil // already resolved
	}

	ctx.revealSeq++
	state.RevealOrder = ctx.revealSeq
	state.Hand = &hand
	state.Status = StatusForcedReveal
	s.checkComplete(ctx)
	return nil
}

func (s *Service) checkComplete(ctx *Context) {
	for _, state := range ctx.players {
		if state.Status == StatusPending {
			return
		}
	}
	ctx.Complete = true
}

// DetermineWinners returns the seats whose revealed hands tie for the
// maximum strength. Mucked and folded players are never winners.
func (s *Service) DetermineWinners(ctx *Context) []int {
	return s.determineWinnersAmong(ctx, nil)
}

// determineWinnersAmong restricts winner computation to the given seats;
// nil means all seats
func (s *Service) determineWinnersAmong(ctx *Context, restrict []int) []int {
	var winners []int
	var best poker.Strength
	for _, seat := range ctx.orderedSeats() {
		state := ctx.players[seat]
		if state.Status != StatusShown && state.Status != StatusForcedReveal {
			continue
		}
		if restrict != nil && !containsSeat(restrict, seat) {
			continue
		}
		if state.Hand == nil {
			continue
		}
		switch {
		case len(winners) == 0 || state.Hand.Compare(best) > 0:
			winners = []int{seat}
			best = *state.Hand
		case state.Hand.Compare(best) == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// PotAward is the outcome of one pot at showdown
type PotAward struct {
	Pot     *entities.Pot
	Winners []int
}

// DetermineWinnersWithPots resolves each pot independently against its own
// eligible set and distributes its amount per the split/remainder rule. A
// player may win several pots in the same hand.
func (s *Service) DetermineWinnersWithPots(ctx *Context, game *entities.Game) ([]PotAward, error) {
	var awards []PotAward
	for _, p := range game.Pots {
		if p.Awarded {
			continue
		}
		winners := s.determineWinnersAmong(ctx, p.Eligible)
		if len(winners) == 0 {
			// Nobody eligible showed; the pot falls back to everyone who
			// revealed a hand
			winners = s.DetermineWinners(ctx)
		}
		if len(winners) == 0 {
			return nil, types.NewGameError(types.ErrInternalError,
				fmt.Sprintf("no winner could be determined for the %s pot", p.Label()))
		}
		if err := s.pots.AwardPot(game, p, winners); err != nil {
			return nil, err
		}
		awards = append(awards, PotAward{Pot: p, Winners: winners})
	}
	return awards, nil
}

// ProcessAllInShowdown handles the no-more-betting case: it reports how many
// community cards must still be dealt before a full board exists, and which
// seats must be auto-revealed immediately because no further betting can
// occur.
func (s *Service) ProcessAllInShowdown(ctx *Context, game *entities.Game, totalCommunityCardsNeeded int) (remaining int, autoReveal []int) {
	remaining = totalCommunityCardsNeeded - len(game.CommunityCards())
	if remaining < 0 {
		remaining = 0
	}
	for _, seat := range ctx.orderedSeats() {
		state := ctx.players[seat]
		if state.Status != StatusPending {
			continue
		}
		p := game.Player(seat)
		if p != nil && p.AllIn {
			autoReveal = append(autoReveal, seat)
		}
	}
	return remaining, autoReveal
}

// BuildWinnerAnnouncement produces the human-readable summary handed to the
// broadcast collaborator: single winner, split pot, or won-by-fold.
func (s *Service) BuildWinnerAnnouncement(ctx *Context, game *entities.Game, winners []int, total int, wonByFold bool) string {
	names := make([]string, 0, len(winners))
	for _, seat := range winners {
		if p := game.Player(seat); p != nil && p.Name != "" {
			names = append(names, p.Name)
		} else {
			names = append(names, fmt.Sprintf("seat %d", seat))
		}
	}

	switch {
	case wonByFold && len(winners) == 1:
		return fmt.Sprintf("%s wins %d (everyone else folded)", names[0], total)
	case len(winners) == 1:
		seat := winners[0]
		if state := ctx.players[seat]; state != nil && state.Hand != nil {
			return fmt.Sprintf("%s wins %d with %s", names[0], total, state.Hand)
		}
		return fmt.Sprintf("%s wins %d", names[0], total)
	default:
		return fmt.Sprintf("Split pot: %s share %d", strings.Join(names, ", "), total)
	}
}

// orderedSeats returns all showdown seats in reveal order, then any seats
// not in the order list (folded ones) in ascending seat order
func (c *Context) orderedSeats() []int {
	seen := make(map[int]bool, len(c.order))
	seats := make([]int, 0, len(c.players))
	for _, seat := range c.order {
		seats = append(seats, seat)
		seen[seat] = true
	}
	var rest []int
	for seat := range c.players {
		if !seen[seat] {
			rest = append(rest, seat)
		}
	}
	sort.Ints(rest)
	return append(seats, rest...)
}

func containsSeat(list []int, seat int) bool {
	for _, s := range list {
		if s == seat {
			return true
		}
	}
	return false
}
