package games

import (
	"fmt"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Five-card draw phase tags
const (
	PhaseFirstBetting  = "FirstBetting"
	PhaseDraw          = "Draw"
	PhaseSecondBetting = "SecondBetting"
)

var fiveDrawPhases = []string{PhaseFirstBetting, PhaseDraw, PhaseSecondBetting, PhaseShowdown, PhaseComplete}

// FiveDraw is five-card draw: an ante game with five concealed cards per
// player, one draw street between two betting rounds.
type FiveDraw struct{}

// NewFiveDraw creates the five-card draw handler
func NewFiveDraw() *FiveDraw { return &FiveDraw{} }

func (f *FiveDraw) Code() string { return "fivedraw" }
func (f *FiveDraw) Name() string { return "Five-Card Draw" }

func (f *FiveDraw) MinPlayers() int { return 2 }
func (f *FiveDraw) MaxPlayers() int { return 6 }

func (f *FiveDraw) Phases() []string { return fiveDrawPhases }

func (f *FiveDraw) GetInitialPhase(game *entities.Game) string { return PhaseFirstBetting }

func (f *FiveDraw) GetNextPhase(game *entities.Game, current string) (string, error) {
	return nextPhaseIn(fiveDrawPhases, current)
}

func (f *FiveDraw) IsBettingPhase(phase string) bool {
	return phase == PhaseFirstBetting || phase == PhaseSecondBetting
}

func (f *FiveDraw) GetDealingConfiguration() DealingConfiguration {
	return DealingConfiguration{
		Pattern:        DealAllAtOnce,
		CardsPerPlayer: 5,
	}
}

func (f *FiveDraw) GetChipCheckConfiguration() ChipCheckConfiguration {
	return ChipCheckConfiguration{Enabled: true, Action: ChipCheckSitOut}
}

// FirstToAct is the first live seat left of the button on both betting
// streets. During the draw it is the next player yet to draw.
func (f *FiveDraw) FirstToAct(game *entities.Game) int {
	if game.Phase == PhaseDraw {
		return f.nextDrawer(game, game.DealerSeat)
	}
	return game.NextActiveSeat(game.DealerSeat)
}

func (f *FiveDraw) DealCards(game *entities.Game, phase string) error {
	if phase != PhaseFirstBetting {
		return nil
	}
	for round := 0; round < 5; round++ {
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
}

// MaxDraw is how many cards one player may replace
func (f *FiveDraw) MaxDraw() int { return 3 }

// ProcessDraw discards the cards at the given indices of the seat's hand and
// deals replacements. An empty index list stands pat. All-in players still
// draw in turn.
func (f *FiveDraw) ProcessDraw(game *entities.Game, seat int, discardIndices []int) error {
	if game.Phase != PhaseDraw {
		return types.NewGameError(types.ErrWrongPhase, "Draws are only allowed during the draw phase")
	}
	if game.CurrentActor != seat {
		return types.NewGameError(types.ErrNotPlayerTurn, fmt.Sprintf("It is not seat %d's turn to draw", seat))
	}
	player := game.Player(seat)
	if player == nil {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("No player at seat %d", seat))
	}
	if !player.InHand() {
		return types.NewGameError(types.ErrPlayerFolded, "Folded players cannot draw")
	}
	if player.HasDrawn {
		return types.NewGameError(types.ErrInvalidAction, "Player has already drawn this hand")
	}
	if len(discardIndices) > f.MaxDraw() {
		return types.NewGameError(types.ErrTooManyDiscards, fmt.Sprintf("At most %d cards may be drawn", f.MaxDraw()))
	}

	held := game.PlayerCards(seat)
	seen := make(map[int]bool, len(discardIndices))
	for _, idx := range discardIndices {
		if idx < 0 || idx >= len(held) {
			return types.NewGameError(types.ErrInvalidCardIndex, fmt.Sprintf("Card index %d is out of range", idx))
		}
		if seen[idx] {
			return types.NewGameError(types.ErrInvalidCardIndex, fmt.Sprintf("Card index %d given twice", idx))
		}
		seen[idx] = true
	}

	// Validation done; mutate
	for _, idx := range discardIndices {
		held[idx].Discarded = true
		held[idx].Location = entities.LocationDiscard
	}
	for range discardIndices {
		if err := dealToSeat(game, seat, false, PhaseDraw); err != nil {
			return err
		}
		game.Cards[len(game.Cards)-1].Drawn = true
	}
	player.HasDrawn = true

	game.CurrentActor = f.nextDrawer(game, seat)
	return nil
}

// nextDrawer returns the first seat after `from` still owed a draw, -1 when
// the draw street is finished
func (f *FiveDraw) nextDrawer(game *entities.Game, from int) int {
	for _, seat := range game.SeatsFrom(from) {
		p := game.Player(seat)
		if p != nil && p.InHand() && !p.HasDrawn {
			return seat
		}
	}
	return -1
}

func (f *FiveDraw) ShowdownRules() showdown.Rules {
	return showdown.Rules{
		ShowOrder:      showdown.ShowOrderLastAggressor,
		AllowMuck:      true,
		ShowAllOnAllIn: true,
	}
}

func (f *FiveDraw) PerformShowdown(game *entities.Game) (map[int]poker.Strength, error) {
	strengths := make(map[int]poker.Strength)
	for _, p := range game.ActivePlayers() {
		strengths[p.Seat] = poker.Evaluate(cardsOf(game.PlayerCards(p.Seat)), nil)
	}
	return strengths, nil
}

// ProcessDrawComplete stands pat for everyone still owed a draw: in an all-in
// fast-forward nobody is left to choose discards
func (f *FiveDraw) ProcessDrawComplete(game *entities.Game) error {
	for _, p := range game.ActivePlayers() {
		p.HasDrawn = true
	}
	return nil
}

func (f *FiveDraw) ProcessPostShowdown(game *entities.Game) error { return nil }

func (f *FiveDraw) SupportsInlineShowdown() bool { return true }
