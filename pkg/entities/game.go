package entities

import (
	"sort"
	"time"

	"github.com/fadedpez/blondie/pkg/cards"
)

// GameStatus is the lifecycle state of a table
type GameStatus string

const (
	StatusWaitingForPlayers GameStatus = "WAITING_FOR_PLAYERS"
	StatusInProgress        GameStatus = "IN_PROGRESS"
	StatusBetweenHands      GameStatus = "BETWEEN_HANDS"
	StatusCompleted         GameStatus = "COMPLETED"
	StatusCancelled         GameStatus = "CANCELLED"
)

// Game is one active table instance. It is the aggregate root for
// concurrency control: every mutation reads Version, computes, and writes
// back only if Version is unchanged.
type Game struct {
	ID      string     `json:"id"`
	Variant string     `json:"variant"`
	Status  GameStatus `json:"status"`

	// Phase is a variant-specific tag; it must be a member of the
	// variant handler's declared phase set.
	Phase string `json:"phase"`

	HandNumber   int `json:"handNumber"`
	DealerSeat   int `json:"dealerSeat"`
	CurrentActor int `json:"currentActor"` // seat index; -1 when no action pending

	Ante       int `json:"ante"`
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	BringIn    int `json:"bringIn"`
	MinBet     int `json:"minBet"`
	MaxBet     int `json:"maxBet"` // 0 means no limit

	Players []*GamePlayer `json:"players"`
	Rounds  []*BettingRound `json:"rounds"`
	Pots    []*Pot          `json:"pots"`
	Cards   []*CardInPlay   `json:"cards"`

	// DeckRemainder is the undealt portion of this hand's shuffled deck
	DeckRemainder []cards.Card `json:"deckRemainder"`

	// LastAggressor is the seat that last bet or raised in the most
	// recent betting round; -1 when nobody has
	LastAggressor int  `json:"lastAggressor"`
	HadAllIn      bool `json:"hadAllIn"`

	// NextHandAt schedules the start of the next hand; nil when no hand
	// is pending
	NextHandAt *time.Time `json:"nextHandAt,omitempty"`

	// PausedForChipCheck is set when a chip-coverage shortfall blocked the
	// next hand; ResumeAt says when the scheduler should try again
	PausedForChipCheck bool       `json:"pausedForChipCheck"`
	ResumeAt           *time.Time `json:"resumeAt,omitempty"`

	// DrawCompleteAt is set by all-in fast-forward phases so the scheduler
	// knows when to resume
	DrawCompleteAt *time.Time `json:"drawCompleteAt,omitempty"`

	LastActivityAt time.Time `json:"lastActivityAt"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Player returns the player seated at the given seat, or nil
func (g *Game) Player(seat int) *GamePlayer {
	for _, p := range g.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// PlayerByID returns the player with the given player id, or nil
func (g *Game) PlayerByID(playerID string) *GamePlayer {
	for _, p := range g.Players {
		if p.PlayerID == playerID {
			return p
		}
	}
	return nil
}

// ActivePlayers returns seated players still contesting the current hand
// (not folded, not left, not sitting out)
func (g *Game) ActivePlayers() []*GamePlayer {
	active := make([]*GamePlayer, 0, len(g.Players))
	for _, p := range g.Players {
		if p.InHand() {
			active = append(active, p)
		}
	}
	return active
}

// EligiblePlayers returns players who can be dealt into the next hand
func (g *Game) EligiblePlayers() []*GamePlayer {
	eligible := make([]*GamePlayer, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Left && !p.SittingOut {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// NextActiveSeat returns the first seat after `from` (clockwise, wrapping)
// whose player is still contesting the hand and able to act. Returns -1
// when no such seat exists.
func (g *Game) NextActiveSeat(from int) int {
	seats := g.seatOrder()
	if len(seats) == 0 {
		return -1
	}
	start := 0
	for i, s := range seats {
		if s > from {
			start = i
			break
		}
		if i == len(seats)-1 {
			start = 0 // wrapped
		}
	}
	for i := 0; i < len(seats); i++ {
		seat := seats[(start+i)%len(seats)]
		p := g.Player(seat)
		if p != nil && p.InHand() && !p.AllIn {
			return seat
		}
	}
	return -1
}

// SeatsFrom returns all occupied seats in clockwise order starting with the
// first seat strictly after `from`, wrapping around
func (g *Game) SeatsFrom(from int) []int {
	seats := g.seatOrder()
	ordered := make([]int, 0, len(seats))
	for _, s := range seats {
		if s > from {
			ordered = append(ordered, s)
		}
	}
	for _, s := range seats {
		if s <= from {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func (g *Game) seatOrder() []int {
	seats := make([]int, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.Left {
			seats = append(seats, p.Seat)
		}
	}
	sort.Ints(seats)
	return seats
}

// CurrentRound returns the open betting round, or nil if none is open.
// At most one round per street may be open at a time.
func (g *Game) CurrentRound() *BettingRound {
	for i := len(g.Rounds) - 1; i >= 0; i-- {
		if !g.Rounds[i].Complete {
			return g.Rounds[i]
		}
	}
	return nil
}

// UnfoldedCount returns the number of players still contesting the hand,
// including all-in players
func (g *Game) UnfoldedCount() int {
	n := 0
	for _, p := range g.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// TotalChips sums player stacks plus unawarded pot amounts. Within a hand
// this is invariant: no action may create or destroy chips.
func (g *Game) TotalChips() int {
	total := 0
	for _, p := range g.Players {
		total += p.Chips
	}
	for _, pot := range g.Pots {
		if !pot.Awarded {
			total += pot.Amount
		}
	}
	return total
}

// ResetForNewHand prepares the aggregate for the next hand: clears per-hand
// card and pot state, resets player flags, advances the dealer button, and
// bumps the hand number.
func (g *Game) ResetForNewHand() {
	g.HandNumber++
	g.Cards = nil
	g.Pots = nil
	g.Rounds = nil
	g.DeckRemainder = nil
	g.LastAggressor = -1
	g.HadAllIn = false
	g.CurrentActor = -1
	g.NextHandAt = nil
	g.DrawCompleteAt = nil

	for _, p := range g.Players {
		p.ResetForNewHand()
	}

	// Advance the button to the next eligible seat
	if next := g.NextActiveSeat(g.DealerSeat); next != -1 {
		g.DealerSeat = next
	}
}

// PlayerCards returns the non-discarded cards currently held by the given seat
func (g *Game) PlayerCards(seat int) []*CardInPlay {
	held := make([]*CardInPlay, 0, 7)
	for _, c := range g.Cards {
		if c.Location == LocationPlayerHand && c.OwnerSeat == seat && !c.Discarded {
			held = append(held, c)
		}
	}
	return held
}

// CommunityCards returns the cards on the board in deal order
func (g *Game) CommunityCards() []*CardInPlay {
	board := make([]*CardInPlay, 0, 5)
	for _, c := range g.Cards {
		if c.Location == LocationBoard {
			board = append(board, c)
		}
	}
	return board
}
