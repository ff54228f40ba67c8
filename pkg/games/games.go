package games

import (
	"fmt"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/cards"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Phase tags shared by every variant. Variants add their own street tags.
const (
	PhaseAllInDraw = "AllInDraw" // no more betting possible; board completion pending
	PhaseShowdown  = "Showdown"
	PhaseComplete  = "Complete"
)

// DealPattern says whether a variant deals everything up front or street by
// street
type DealPattern string

const (
	DealAllAtOnce DealPattern = "ALL_AT_ONCE"
	DealPerStreet DealPattern = "PER_STREET"
)

// DealingConfiguration describes a variant's dealing shape
type DealingConfiguration struct {
	Pattern        DealPattern
	CardsPerPlayer int
	// FaceUpIndices are the positions within a player's final hand that are
	// dealt exposed (stud games)
	FaceUpIndices []int
	// CommunityCards is the size of a full board; 0 for non-community games
	CommunityCards int
}

// ChipCheckAction is what happens to a player who cannot cover the forced
// bets for the next hand
type ChipCheckAction string

const (
	ChipCheckSitOut   ChipCheckAction = "SIT_OUT"
	ChipCheckAutoFold ChipCheckAction = "AUTO_FOLD"
)

// ChipCheckConfiguration controls the pre-hand chip-coverage verification
type ChipCheckConfiguration struct {
	Enabled bool
	Action  ChipCheckAction
}

// Handler is the per-variant strategy: it owns the phase sequence, dealing
// pattern, first-actor rule, showdown ruleset, and any special sub-phases.
// An unrecognized variant code is a configuration error at game-creation
// time, never at runtime.
type Handler interface {
	// Code is the variant code games are created with
	Code() string

	// Name is the display name
	Name() string

	MinPlayers() int
	MaxPlayers() int

	// Phases lists every phase tag the variant can be in, in canonical order
	Phases() []string

	GetInitialPhase(game *entities.Game) string
	GetNextPhase(game *entities.Game, current string) (string, error)

	// IsBettingPhase says whether entering the given phase opens a betting
	// round. Draw streets, drop-or-stay, and the terminal phases do not.
	IsBettingPhase(phase string) bool

	GetDealingConfiguration() DealingConfiguration
	GetChipCheckConfiguration() ChipCheckConfiguration

	// FirstToAct applies the variant's opening rule for the game's current
	// phase: bring-in by exposed card for stud games, position left of the
	// blinds for blind games. Returns -1 when nobody can act.
	FirstToAct(game *entities.Game) int

	// DealCards deals for the given phase, appending card-in-play records
	// and consuming the game's deck remainder
	DealCards(game *entities.Game, phase string) error

	// ShowdownRules returns the variant's reveal/muck ruleset
	ShowdownRules() showdown.Rules

	// PerformShowdown evaluates every live player's best hand, applying the
	// variant's wild-card designations
	PerformShowdown(game *entities.Game) (map[int]poker.Strength, error)

	// ProcessDrawComplete finishes dealing after an all-in fast-forward so
	// the hand can reach showdown without further player input
	ProcessDrawComplete(game *entities.Game) error

	// ProcessPostShowdown runs any variant cleanup after winners are paid
	ProcessPostShowdown(game *entities.Game) error

	// SupportsInlineShowdown is true when an all-in fast-forward may resolve
	// straight through showdown to Complete in a single scheduler pass
	SupportsInlineShowdown() bool
}

// Drawer is implemented by variants with a draw street (five-card draw)
type Drawer interface {
	// MaxDraw is how many cards a player may replace
	MaxDraw() int

	// ProcessDraw replaces the cards at the given hand indices for the seat
	ProcessDraw(game *entities.Game, seat int, discardIndices []int) error
}

// DropOrStayer is implemented by variants with a drop-or-stay sub-phase
// (guts). A lone stayer plays against a freshly dealt deck hand.
type DropOrStayer interface {
	ProcessDropOrStay(game *entities.Game, seat int, stay bool) error
}

// deckRemainderDraw takes the next n cards off the game's stored deck
func deckRemainderDraw(game *entities.Game, n int) []cards.Card {
	if n > len(game.DeckRemainder) {
		n = len(game.DeckRemainder)
	}
	drawn := game.DeckRemainder[:n]
	game.DeckRemainder = game.DeckRemainder[n:]
	return drawn
}

// dealToSeat moves the next deck card into the given seat's hand
func dealToSeat(game *entities.Game, seat int, faceUp bool, phase string) error {
	drawn := deckRemainderDraw(game, 1)
	if len(drawn) == 0 {
		return types.NewGameError(types.ErrInternalError, "deck exhausted while dealing")
	}
	game.Cards = append(game.Cards, &entities.CardInPlay{
		Card:       drawn[0],
		Location:   entities.LocationPlayerHand,
		OwnerSeat:  seat,
		DealOrder:  len(game.Cards),
		FaceUp:     faceUp,
		DealtPhase: phase,
	})
	return nil
}

// dealToBoard moves the next n deck cards onto the board, face up
func dealToBoard(game *entities.Game, n int, phase string) error {
	drawn := deckRemainderDraw(game, n)
	if len(drawn) < n {
		return types.NewGameError(types.ErrInternalError, "deck exhausted while dealing")
	}
	for _, c := range drawn {
		game.Cards = append(game.Cards, &entities.CardInPlay{
			Card:       c,
			Location:   entities.LocationBoard,
			OwnerSeat:  -1,
			DealOrder:  len(game.Cards),
			FaceUp:     true,
			DealtPhase: phase,
		})
	}
	return nil
}

// cardsOf extracts the plain cards from a hand of in-play records
func cardsOf(inPlay []*entities.CardInPlay) []cards.Card {
	out := make([]cards.Card, 0, len(inPlay))
	for _, c := range inPlay {
		out = append(out, c.Card)
	}
	return out
}

// nextPhaseIn walks the canonical phase sequence. An unknown phase tag is a
// configuration error.
func nextPhaseIn(sequence []string, current string) (string, error) {
	if current == PhaseAllInDraw {
		return PhaseShowdown, nil
	}
	for i, phase := range sequence {
		if phase == current {
			if i == len(sequence)-1 {
				return "", types.NewGameError(types.ErrWrongPhase, fmt.Sprintf("No phase follows %s", current))
			}
			return sequence[i+1], nil
		}
	}
	return "", types.NewGameError(types.ErrWrongPhase, fmt.Sprintf("Unknown phase %s", current))
}
