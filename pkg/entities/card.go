package entities

import "github.com/fadedpez/blondie/pkg/cards"

// CardLocation is where a dealt card currently lives
type CardLocation string

const (
	LocationDeck       CardLocation = "DECK"
	LocationBoard      CardLocation = "BOARD"
	LocationPlayerHand CardLocation = "PLAYER_HAND"
	LocationDiscard    CardLocation = "DISCARD"
)

// CardInPlay is one card dealt during the current hand, with its visibility
// and ownership. No two non-discarded cards in the same hand share suit and
// rank.
type CardInPlay struct {
	Card     cards.Card   `json:"card"`
	Location CardLocation `json:"location"`

	// OwnerSeat is the seat holding the card; -1 for community cards
	OwnerSeat int `json:"ownerSeat"`

	DealOrder  int    `json:"dealOrder"`
	FaceUp     bool   `json:"faceUp"`
	Discarded  bool   `json:"discarded"`
	Drawn      bool   `json:"drawn"` // received via a draw, not the initial deal
	DealtPhase string `json:"dealtPhase"`

	// Wild marks cards designated wild by the variant (statically or
	// dynamically, as in follow-the-queen)
	Wild bool `json:"wild"`
}
