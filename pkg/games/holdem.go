package games

import (
	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Hold'em phase tags
const (
	PhasePreFlop = "PreFlop"
	PhaseFlop    = "Flop"
	PhaseTurn    = "Turn"
	PhaseRiver   = "River"
)

var holdemPhases = []string{PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown, PhaseComplete}

// Holdem is Texas Hold'em: two hole cards per player, a five-card community
// board dealt across four streets, blinds instead of antes.
type Holdem struct{}

// NewHoldem creates the Texas Hold'em handler
func NewHoldem() *Holdem { return &Holdem{} }

func (h *Holdem) Code() string { return "holdem" }
func (h *Holdem) Name() string { return "Texas Hold'em" }

func (h *Holdem) MinPlayers() int { return 2 }
func (h *Holdem) MaxPlayers() int { return 10 }

func (h *Holdem) Phases() []string { return holdemPhases }

func (h *Holdem) GetInitialPhase(game *entities.Game) string { return PhasePreFlop }

func (h *Holdem) GetNextPhase(game *entities.Game, current string) (string, error) {
	return nextPhaseIn(holdemPhases, current)
}

func (h *Holdem) IsBettingPhase(phase string) bool {
	switch phase {
	case PhasePreFlop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

func (h *Holdem) GetDealingConfiguration() DealingConfiguration {
	return DealingConfiguration{
		Pattern:        DealPerStreet,
		CardsPerPlayer: 2,
		CommunityCards: 5,
	}
}

func (h *Holdem) GetChipCheckConfiguration() ChipCheckConfiguration {
	return ChipCheckConfiguration{Enabled: true, Action: ChipCheckSitOut}
}

// FirstToAct: preflop the seat left of the big blind opens (the dealer in a
// heads-up game); on later streets the first live seat left of the button.
func (h *Holdem) FirstToAct(game *entities.Game) int {
	if game.Phase != PhasePreFlop {
		return game.NextActiveSeat(game.DealerSeat)
	}
	if len(game.ActivePlayers()) == 2 {
		// heads-up: the button posts the small blind and opens preflop
		if p := game.Player(game.DealerSeat); p != nil && p.InHand() && !p.AllIn {
			return game.DealerSeat
		}
		return game.NextActiveSeat(game.DealerSeat)
	}
	smallBlind := game.NextActiveSeat(game.DealerSeat)
	bigBlind := game.NextActiveSeat(smallBlind)
	return game.NextActiveSeat(bigBlind)
}

func (h *Holdem) DealCards(game *entities.Game, phase string) error {
	switch phase {
	case PhasePreFlop:
		for round := 0; round < 2; round++ {
			for _, seat := range game.SeatsFrom(game.DealerSeat) {
				p := game.Player(seat)
				if p == nil || !p.InHand() {
					continue
				}
				if err := dealToSeat(game, seat, false, phase); err != nil {
					return err
				}
			}
		}
		return nil
	case PhaseFlop:
		return dealToBoard(game, 3, phase)
	case PhaseTurn, PhaseRiver:
		return dealToBoard(game, 1, phase)
	default:
		return types.NewGameError(types.ErrWrongPhase, "No cards are dealt in phase "+phase)
	}
}

func (h *Holdem) ShowdownRules() showdown.Rules {
	return showdown.Rules{
		ShowOrder:      showdown.ShowOrderLastAggressor,
		AllowMuck:      true,
		ShowAllOnAllIn: true,
	}
}

func (h *Holdem) PerformShowdown(game *entities.Game) (map[int]poker.Strength, error) {
	board := cardsOf(game.CommunityCards())
	strengths := make(map[int]poker.Strength)
	for _, p := range game.ActivePlayers() {
		hole := cardsOf(game.PlayerCards(p.Seat))
		strengths[p.Seat] = poker.Evaluate(append(hole, board...), nil)
	}
	return strengths, nil
}

// ProcessDrawComplete runs out the rest of the board after an all-in
func (h *Holdem) ProcessDrawComplete(game *entities.Game) error {
	missing := h.GetDealingConfiguration().CommunityCards - len(game.CommunityCards())
	if missing > 0 {
		return dealToBoard(game, missing, PhaseAllInDraw)
	}
	return nil
}

func (h *Holdem) ProcessPostShowdown(game *entities.Game) error { return nil }

func (h *Holdem) SupportsInlineShowdown() bool { return false }
