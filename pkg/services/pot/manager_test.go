package pot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/blondie/pkg/entities"
)

func newGame(stacks ...int) *entities.Game {
	g := &entities.Game{
		ID:         "game1",
		HandNumber: 1,
		DealerSeat: 0,
	}
	for seat, chips := range stacks {
		g.Players = append(g.Players, entities.NewGamePlayer(
			// player ids only need to be distinct here
			string(rune('a'+seat)), "", seat, chips))
	}
	return g
}

func contribute(p *entities.GamePlayer, amount int) {
	p.Pay(amount)
}

func TestBuildPots_SinglePotNoAllIns(t *testing.T) {
	g := newGame(100, 100, 100)
	for _, p := range g.Players {
		contribute(p, 20)
	}

	m := NewManager()
	pots := m.BuildPots(g)

	require.Len(t, pots, 1)
	assert.Equal(t, entities.PotMain, pots[0].Type)
	assert.Equal(t, 60, pots[0].Amount)
	assert.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
}

func TestBuildPots_ThreeWayAllIn(t *testing.T) {
	// Stacks 100/50/200, everyone all-in
	g := newGame(100, 50, 200)
	for _, p := range g.Players {
		contribute(p, p.Chips)
	}

	m := NewManager()
	pots := m.BuildPots(g)

	require.Len(t, pots, 3)

	// Main pot capped at 3 x 50; every seat eligible
	assert.Equal(t, entities.PotMain, pots[0].Type)
	assert.Equal(t, 150, pots[0].Amount)
	assert.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)

	// First side pot excludes the smallest stack
	assert.Equal(t, entities.PotSide, pots[1].Type)
	assert.Equal(t, 100, pots[1].Amount)
	assert.ElementsMatch(t, []int{0, 2}, pots[1].Eligible)

	// Second side pot holds the big stack's uncalled excess
	assert.Equal(t, 100, pots[2].Amount)
	assert.ElementsMatch(t, []int{2}, pots[2].Eligible)

	// No chips created or destroyed
	total := 0
	for _, p := range pots {
		total += p.Amount
	}
	assert.Equal(t, 350, total)
}

func TestBuildPots_FoldedPlayerContributesButIsNotEligible(t *testing.T) {
	g := newGame(100, 100, 100, 100)
	contribute(g.Player(0), 30)
	contribute(g.Player(1), 50)
	contribute(g.Player(2), 50)
	contribute(g.Player(3), 10)
	g.Player(3).Folded = true
	g.Player(0).AllIn = true

	m := NewManager()
	pots := m.BuildPots(g)

	require.Len(t, pots, 2)
	// Main pot: 30+30+30+10 = 100; folded seat 3 is not eligible
	assert.Equal(t, 100, pots[0].Amount)
	assert.ElementsMatch(t, []int{0, 1, 2}, pots[0].Eligible)
	// Side pot above seat 0's all-in level
	assert.Equal(t, 40, pots[1].Amount)
	assert.ElementsMatch(t, []int{1, 2}, pots[1].Eligible)
}

func TestAwardPot_EvenSplit(t *testing.T) {
	g := newGame(0, 0)
	pot := &entities.Pot{HandNumber: 1, Type: entities.PotMain, Amount: 100, Eligible: []int{0, 1}}
	g.Pots = []*entities.Pot{pot}

	m := NewManager()
	require.NoError(t, m.AwardPot(g, pot, []int{0, 1}))

	assert.Equal(t, 50, g.Player(0).Chips)
	assert.Equal(t, 50, g.Player(1).Chips)
	assert.True(t, pot.Awarded)
}

func TestAwardPot_OddChipGoesClockwiseFromDealer(t *testing.T) {
	// Dealer is seat 1; the odd chip goes to the first winner clockwise
	// after the button, which is seat 2
	g := newGame(0, 0, 0)
	g.DealerSeat = 1
	pot := &entities.Pot{HandNumber: 1, Type: entities.PotMain, Amount: 101, Eligible: []int{0, 2}}
	g.Pots = []*entities.Pot{pot}

	m := NewManager()
	require.NoError(t, m.AwardPot(g, pot, []int{0, 2}))

	assert.Equal(t, 51, g.Player(2).Chips)
	assert.Equal(t, 50, g.Player(0).Chips)
	assert.Equal(t, map[int]int{2: 51, 0: 50}, pot.Winners)
}

func TestAwardPot_DoubleAwardRejected(t *testing.T) {
	g := newGame(0, 0)
	pot := &entities.Pot{HandNumber: 1, Type: entities.PotMain, Amount: 100, Eligible: []int{0, 1}}

	m := NewManager()
	require.NoError(t, m.AwardPot(g, pot, []int{0}))

	err := m.AwardPot(g, pot, []int{1})
	assert.Error(t, err)
	assert.Equal(t, 100, g.Player(0).Chips)
	assert.Equal(t, 0, g.Player(1).Chips)
}

func TestAwardPot_IneligibleWinnerRejected(t *testing.T) {
	g := newGame(0, 0, 0)
	pot := &entities.Pot{HandNumber: 1, Type: entities.PotSide, SideIndex: 1, Amount: 60, Eligible: []int{0, 1}}

	m := NewManager()
	err := m.AwardPot(g, pot, []int{2})
	assert.Error(t, err)
	assert.False(t, pot.Awarded)
	assert.Equal(t, 0, g.Player(2).Chips)
}

func TestAwardedAmountsEqualContributions(t *testing.T) {
	g := newGame(80, 45, 120)
	for _, p := range g.Players {
		contribute(p, p.Chips)
	}

	m := NewManager()
	pots := m.BuildPots(g)

	contributed := 0
	for _, p := range g.Players {
		contributed += p.TotalContributed
	}

	// Award every pot to its first eligible seat
	awarded := 0
	for _, pot := range pots {
		require.NoError(t, m.AwardPot(g, pot, []int{pot.Eligible[0]}))
		for _, amount := range pot.Winners {
			awarded += amount
		}
	}
	assert.Equal(t, contributed, awarded)
}
