package cards

import (
	"math/rand"
	"time"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Suits lists all four suits in a stable order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents a card rank. Ranks are numeric so hands can be compared
// directly; Ace is high (14) and may play low in a wheel straight.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Ranks lists all thirteen ranks in ascending order
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

var rankNames = map[Rank]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String returns the short name of the rank ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// Card represents a playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns a string representation of the card
func (c Card) String() string {
	return c.Rank.String() + string(c.Suit)
}

// Equal reports whether two cards share suit and rank
func (c Card) Equal(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Deck represents a deck of cards
type Deck struct {
	Cards []Card
	rng   *rand.Rand
}

// NewDeck creates a new ordered deck of 52 distinct cards
func NewDeck() *Deck {
	return NewDeckWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewDeckWithSource creates a deck using the given randomness source.
// Tests pass a fixed seed to get reproducible shuffles.
func NewDeckWithSource(src rand.Source) *Deck {
	deck := &Deck{rng: rand.New(src)}
	for _, suit := range Suits {
		for _, rank := range Ranks {
			deck.Cards = append(deck.Cards, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle shuffles the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Remaining returns the number of undrawn cards
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// Draw draws n cards from the deck
func (d *Deck) Draw(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}

	cards := d.Cards[:n]
	d.Cards = d.Cards[n:]
	return cards
}

// DrawOne draws one card from the deck
func (d *Deck) DrawOne() Card {
	cards := d.Draw(1)
	if len(cards) == 0 {
		return Card{}
	}
	return cards[0]
}
