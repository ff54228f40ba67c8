package games

import (
	"fmt"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Guts phase tags
const (
	PhaseDropOrStay = "DropOrStay"
)

var gutsPhases = []string{PhaseDropOrStay, PhaseShowdown, PhaseComplete}

// Guts is three-card guts: everyone antes, receives three concealed cards,
// and declares stay or drop in turn. Two or more stayers go to showdown. A
// lone stayer plays against a three-card hand dealt from the deck and must
// beat it to take the pot; otherwise the pot carries to the next hand.
type Guts struct{}

// NewGuts creates the guts handler
func NewGuts() *Guts { return &Guts{} }

func (g *Guts) Code() string { return "guts" }
func (g *Guts) Name() string { return "Guts" }

func (g *Guts) MinPlayers() int { return 2 }
func (g *Guts) MaxPlayers() int { return 10 }

func (g *Guts) Phases() []string { return gutsPhases }

func (g *Guts) GetInitialPhase(game *entities.Game) string { return PhaseDropOrStay }

func (g *Guts) GetNextPhase(game *entities.Game, current string) (string, error) {
	return nextPhaseIn(gutsPhases, current)
}

// IsBettingPhase: guts has no betting streets, only the ante
func (g *Guts) IsBettingPhase(phase string) bool { return false }

func (g *Guts) GetDealingConfiguration() DealingConfiguration {
	return DealingConfiguration{
		Pattern:        DealAllAtOnce,
		CardsPerPlayer: 3,
	}
}

func (g *Guts) GetChipCheckConfiguration() ChipCheckConfiguration {
	return ChipCheckConfiguration{Enabled: true, Action: ChipCheckAutoFold}
}

// FirstToAct is the next undeclared seat during drop-or-stay
func (g *Guts) FirstToAct(game *entities.Game) int {
	if game.Phase != PhaseDropOrStay {
		return -1
	}
	return g.nextUndeclared(game, game.DealerSeat)
}

func (g *Guts) DealCards(game *entities.Game, phase string) error {
	if phase != PhaseDropOrStay {
		return nil
	}
	for round := 0; round < 3; round++ {
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

// ProcessDropOrStay records one player's declaration. Dropping folds the
// hand; the ante stays in the pot.
func (g *Guts) ProcessDropOrStay(game *entities.Game, seat int, stay bool) error {
	if game.Phase != PhaseDropOrStay {
		return types.NewGameError(types.ErrWrongPhase, "Declarations are only allowed during drop-or-stay")
	}
	if game.CurrentActor != seat {
		return types.NewGameError(types.ErrNotPlayerTurn, fmt.Sprintf("It is not seat %d's turn to declare", seat))
	}
	player := game.Player(seat)
	if player == nil {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("No player at seat %d", seat))
	}
	if !player.InHand() {
		return types.NewGameError(types.ErrPlayerFolded, "Folded players cannot declare")
	}
	if player.Stayed {
		return types.NewGameError(types.ErrInvalidAction, "Player has already declared")
	}

	if stay {
		player.Stayed = true
	} else {
		player.Folded = true
	}

	game.CurrentActor = g.nextUndeclared(game, seat)
	return nil
}

// nextUndeclared returns the first seat after `from` yet to declare, -1 when
// everyone has
func (g *Guts) nextUndeclared(game *entities.Game, from int) int {
	for _, seat := range game.SeatsFrom(from) {
		p := game.Player(seat)
		if p != nil && p.InHand() && !p.Stayed {
			return seat
		}
	}
	return -1
}

func (g *Guts) ShowdownRules() showdown.Rules {
	return showdown.Rules{
		ShowOrder:      showdown.ShowOrderClockwiseFromButton,
		AllowMuck:      false,
		ShowAllOnAllIn: true,
	}
}

// PerformShowdown evaluates the stayers. A lone stayer draws a deck hand
// onto the board and must strictly beat it; on a loss or tie the returned
// map is empty and the pot carries to the next hand.
func (g *Guts) PerformShowdown(game *entities.Game) (map[int]poker.Strength, error) {
	stayers := game.ActivePlayers()
	strengths := make(map[int]poker.Strength)

	if len(stayers) == 1 {
		if missing := 3 - len(game.CommunityCards()); missing > 0 {
			if err := dealToBoard(game, missing, PhaseShowdown); err != nil {
				return nil, err
			}
		}
		deckHand := poker.Evaluate(cardsOf(game.CommunityCards()), nil)
		playerHand := poker.Evaluate(cardsOf(game.PlayerCards(stayers[0].Seat)), nil)
		if playerHand.Compare(deckHand) > 0 {
			strengths[stayers[0].Seat] = playerHand
		}
		return strengths, nil
	}

	for _, p := range stayers {
		strengths[p.Seat] = poker.Evaluate(cardsOf(game.PlayerCards(p.Seat)), nil)
	}
	return strengths, nil
}

func (g *Guts) ProcessDrawComplete(game *entities.Game) error { return nil }

func (g *Guts) ProcessPostShowdown(game *entities.Game) error { return nil }

func (g *Guts) SupportsInlineShowdown() bool { return true }
