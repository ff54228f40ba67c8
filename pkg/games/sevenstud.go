package games

import (
	"sort"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/cards"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Seven-card stud phase tags
const (
	PhaseThirdStreet   = "ThirdStreet"
	PhaseFourthStreet  = "FourthStreet"
	PhaseFifthStreet   = "FifthStreet"
	PhaseSixthStreet   = "SixthStreet"
	PhaseSeventhStreet = "SeventhStreet"
)

var sevenStudPhases = []string{
	PhaseThirdStreet, PhaseFourthStreet, PhaseFifthStreet,
	PhaseSixthStreet, PhaseSeventhStreet, PhaseShowdown, PhaseComplete,
}

// Bring-in ties on third street break by suit, clubs lowest
var bringInSuitOrder = map[cards.Suit]int{
	cards.Clubs:    0,
	cards.Diamonds: 1,
	cards.Hearts:   2,
	cards.Spades:   3,
}

// SevenStud is seven-card stud: antes and a bring-in, seven cards dealt
// across five streets with four of them exposed, no community cards.
type SevenStud struct{}

// NewSevenStud creates the seven-card stud handler
func NewSevenStud() *SevenStud { return &SevenStud{} }

func (s *SevenStud) Code() string { return "sevenstud" }
func (s *SevenStud) Name() string { return "Seven-Card Stud" }

func (s *SevenStud) MinPlayers() int { return 2 }
func (s *SevenStud) MaxPlayers() int { return 7 }

func (s *SevenStud) Phases() []string { return sevenStudPhases }

func (s *SevenStud) GetInitialPhase(game *entities.Game) string { return PhaseThirdStreet }

func (s *SevenStud) GetNextPhase(game *entities.Game, current string) (string, error) {
	return nextPhaseIn(sevenStudPhases, current)
}

func (s *SevenStud) IsBettingPhase(phase string) bool {
	switch phase {
	case PhaseThirdStreet, PhaseFourthStreet, PhaseFifthStreet, PhaseSixthStreet, PhaseSeventhStreet:
		return true
	}
	return false
}

func (s *SevenStud) GetDealingConfiguration() DealingConfiguration {
	return DealingConfiguration{
		Pattern:        DealPerStreet,
		CardsPerPlayer: 7,
		FaceUpIndices:  []int{2, 3, 4, 5},
	}
}

func (s *SevenStud) GetChipCheckConfiguration() ChipCheckConfiguration {
	return ChipCheckConfiguration{Enabled: true, Action: ChipCheckSitOut}
}

// FirstToAct: the lowest exposed card brings in on third street; on later
// streets the best exposed hand opens
func (s *SevenStud) FirstToAct(game *entities.Game) int {
	seat := -1
	if game.Phase == PhaseThirdStreet {
		seat = s.lowestUpCardSeat(game)
	} else {
		seat = s.bestExposedSeat(game)
	}
	if seat == -1 {
		return -1
	}
	if p := game.Player(seat); p != nil && p.AllIn {
		return game.NextActiveSeat(seat)
	}
	return seat
}

func (s *SevenStud) lowestUpCardSeat(game *entities.Game) int {
	seat := -1
	var low cards.Card
	for _, p := range game.ActivePlayers() {
		for _, c := range game.PlayerCards(p.Seat) {
			if !c.FaceUp {
				continue
			}
			if seat == -1 || c.Card.Rank < low.Rank ||
				(c.Card.Rank == low.Rank && bringInSuitOrder[c.Card.Suit] < bringInSuitOrder[low.Suit]) {
				seat = p.Seat
				low = c.Card
			}
		}
	}
	return seat
}

func (s *SevenStud) bestExposedSeat(game *entities.Game) int {
	seat := -1
	var best []int
	// walk clockwise from the button so ties go to the earliest position
	for _, cand := range game.SeatsFrom(game.DealerSeat) {
		p := game.Player(cand)
		if p == nil || !p.InHand() {
			continue
		}
		key := exposedKey(game.PlayerCards(cand))
		if seat == -1 || exposedGreater(key, best) {
			seat = cand
			best = key
		}
	}
	return seat
}

// exposedKey ranks a player's face-up cards: grouped by count (pairs beat
// high cards), then by rank, flattened for lexicographic comparison
func exposedKey(held []*entities.CardInPlay) []int {
	counts := make(map[cards.Rank]int)
	for _, c := range held {
		if c.FaceUp {
			counts[c.Card.Rank]++
		}
	}
	type group struct {
		count int
		rank  cards.Rank
	}
	groups := make([]group, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, group{count: n, rank: r})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	key := make([]int, 0, len(groups)*2)
	for _, g := range groups {
		key = append(key, g.count, int(g.rank))
	}
	return key
}

func exposedGreater(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return len(a) > len(b)
}

func (s *SevenStud) DealCards(game *entities.Game, phase string) error {
	var faceUp bool
	var rounds int

	switch phase {
	case PhaseThirdStreet:
		// two down, one up
		for round := 0; round < 3; round++ {
			up := round == 2
			if err := s.dealRound(game, up, phase); err != nil {
				return err
			}
		}
		return nil
	case PhaseFourthStreet, PhaseFifthStreet, PhaseSixthStreet:
		faceUp, rounds = true, 1
	case PhaseSeventhStreet:
		faceUp, rounds = false, 1
	default:
		return types.NewGameError(types.ErrWrongPhase, "No cards are dealt in phase "+phase)
	}

	for round := 0; round < rounds; round++ {
		if err := s.dealRound(game, faceUp, phase); err != nil {
			return err
		}
	}
	return nil
}

func (s *SevenStud) dealRound(game *entities.Game, faceUp bool, phase string) error {
	for _, seat := range game.SeatsFrom(game.DealerSeat) {
		p := game.Player(seat)
		if p == nil || !p.InHand() {
			continue
		}
		if err := dealToSeat(game, seat, faceUp, phase); err != nil {
			return err
		}
	}
	return nil
}

func (s *SevenStud) ShowdownRules() showdown.Rules {
	return showdown.Rules{
		ShowOrder:      showdown.ShowOrderLastAggressor,
		AllowMuck:      true,
		ShowAllOnAllIn: true,
	}
}

func (s *SevenStud) PerformShowdown(game *entities.Game) (map[int]poker.Strength, error) {
	strengths := make(map[int]poker.Strength)
	for _, p := range game.ActivePlayers() {
		strengths[p.Seat] = poker.Evaluate(cardsOf(game.PlayerCards(p.Seat)), nil)
	}
	return strengths, nil
}

// ProcessDrawComplete deals the undealt streets after an all-in: cards three
// through six exposed, the seventh down
func (s *SevenStud) ProcessDrawComplete(game *entities.Game) error {
	for {
		dealt := false
		for _, seat := range game.SeatsFrom(game.DealerSeat) {
			p := game.Player(seat)
			if p == nil || !p.InHand() {
				continue
			}
			n := len(game.PlayerCards(seat))
			if n >= 7 {
				continue
			}
			faceUp := n >= 2 && n <= 5
			if err := dealToSeat(game, seat, faceUp, PhaseAllInDraw); err != nil {
				return err
			}
			dealt = true
		}
		if !dealt {
			return nil
		}
	}
}

func (s *SevenStud) ProcessPostShowdown(game *entities.Game) error { return nil }

func (s *SevenStud) SupportsInlineShowdown() bool { return false }
