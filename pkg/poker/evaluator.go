package poker

import (
	"fmt"
	"sort"

	"github.com/fadedpez/blondie/pkg/cards"
)

// Category is a poker hand category, ascending in strength. FiveOfAKind is
// only reachable in wild-card games and outranks a straight flush.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	FiveOfAKind
)

var categoryNames = map[Category]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	FiveOfAKind:   "Five of a Kind",
}

// String returns the category's display name
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Strength is a comparable hand strength: category first, then a
// category-specific tiebreak key ordered most significant first.
type Strength struct {
	Category Category     `json:"category"`
	Tiebreak []cards.Rank `json:"tiebreak"`
}

// Compare returns -1, 0, or 1 as s is weaker than, equal to, or stronger
// than other. Equal strengths share the pot.
func (s Strength) Compare(other Strength) int {
	if s.Category != other.Category {
		if s.Category < other.Category {
			return -1
		}
		return 1
	}
	for i := 0; i < len(s.Tiebreak) && i < len(other.Tiebreak); i++ {
		if s.Tiebreak[i] != other.Tiebreak[i] {
			if s.Tiebreak[i] < other.Tiebreak[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// String returns a human-readable description, e.g. "Full House (Kings over Fours)"
func (s Strength) String() string {
	if len(s.Tiebreak) == 0 {
		return s.Category.String()
	}
	switch s.Category {
	case FullHouse:
		return fmt.Sprintf("%s (%ss over %ss)", s.Category, s.Tiebreak[0], s.Tiebreak[1])
	case TwoPair:
		return fmt.Sprintf("%s (%ss and %ss)", s.Category, s.Tiebreak[0], s.Tiebreak[1])
	case Straight, StraightFlush:
		return fmt.Sprintf("%s (%s high)", s.Category, s.Tiebreak[0])
	default:
		return fmt.Sprintf("%s (%ss)", s.Category, s.Tiebreak[0])
	}
}

// Evaluate returns the strength of the best five-card hand that can be made
// from the given cards. isWild, when non-nil, marks cards that may stand in
// for any card.
func Evaluate(hand []cards.Card, isWild func(cards.Card) bool) Strength {
	naturals := make([]cards.Card, 0, len(hand))
	wilds := 0
	for _, c := range hand {
		if isWild != nil && isWild(c) {
			wilds++
		} else {
			naturals = append(naturals, c)
		}
	}

	// With four or more wilds the best hand is always five of a kind of
	// the highest available rank
	if wilds >= 4 {
		best := cards.Ace
		if wilds == 4 && len(naturals) > 0 {
			best = cards.Two
			for _, c := range naturals {
				if c.Rank > best {
					best = c.Rank
				}
			}
		}
		return Strength{Category: FiveOfAKind, Tiebreak: []cards.Rank{best}}
	}

	take := 5 - wilds
	if take > len(naturals) {
		take = len(naturals)
	}

	var best Strength
	first := true
	forEachCombination(len(naturals), take, func(idx []int) {
		chosen := make([]cards.Card, 0, 5)
		for _, i := range idx {
			chosen = append(chosen, naturals[i])
		}
		s := bestWithWilds(chosen, wilds)
		if first || s.Compare(best) > 0 {
			best = s
			first = false
		}
	})
	if first {
		// Fewer than five cards and no wilds: rank what we have
		return evalFive(naturals)
	}
	return best
}

// bestWithWilds fills the remaining slots of a partial hand with the best
// possible substitutions for each wild
func bestWithWilds(chosen []cards.Card, wilds int) Strength {
	if wilds == 0 {
		return evalFive(chosen)
	}

	var best Strength
	first := true
	for _, suit := range cards.Suits {
		for _, rank := range cards.Ranks {
			candidate := append(chosen[:len(chosen):len(chosen)], cards.Card{Suit: suit, Rank: rank})
			s := bestWithWilds(candidate, wilds-1)
			if first || s.Compare(best) > 0 {
				best = s
				first = false
			}
		}
	}
	return best
}

// forEachCombination calls fn with every k-subset of [0,n)
func forEachCombination(n, k int, fn func([]int)) {
	if k > n {
		k = n
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	if k == 0 {
		fn(idx)
		return
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// evalFive ranks an exact hand of up to five cards. Substituted wild cards
// may duplicate a natural card, which is how five of a kind arises.
func evalFive(hand []cards.Card) Strength {
	counts := make(map[cards.Rank]int)
	suits := make(map[cards.Suit]int)
	for _, c := range hand {
		counts[c.Rank]++
		suits[c.Suit]++
	}

	ranksDesc := make([]cards.Rank, 0, len(hand))
	for _, c := range hand {
		ranksDesc = append(ranksDesc, c.Rank)
	}
	sortRanksDesc(ranksDesc)

	isFlush := len(hand) == 5 && len(suits) == 1
	straightHigh, isStraight := straightHighCard(counts, len(hand))

	// Group ranks by multiplicity: quads, trips, pairs, singles
	var quads, trips, pairs, singles []cards.Rank
	for rank, n := range counts {
		switch n {
		case 5:
			return Strength{Category: FiveOfAKind, Tiebreak: []cards.Rank{rank}}
		case 4:
			quads = append(quads, rank)
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		default:
			singles = append(singles, rank)
		}
	}
	sortRanksDesc(quads)
	sortRanksDesc(trips)
	sortRanksDesc(pairs)
	sortRanksDesc(singles)

	switch {
	case isStraight && isFlush:
		return Strength{Category: StraightFlush, Tiebreak: []cards.Rank{straightHigh}}
	case len(quads) > 0:
		return Strength{Category: FourOfAKind, Tiebreak: append([]cards.Rank{quads[0]}, singles...)}
	case len(trips) > 0 && len(pairs) > 0:
		return Strength{Category: FullHouse, Tiebreak: []cards.Rank{trips[0], pairs[0]}}
	case len(trips) > 1:
		// Two sets of trips only occur with wild substitution; the lower
		// set plays as the pair of a full house
		return Strength{Category: FullHouse, Tiebreak: []cards.Rank{trips[0], trips[1]}}
	case isFlush:
		return Strength{Category: Flush, Tiebreak: ranksDesc}
	case isStraight:
		return Strength{Category: Straight, Tiebreak: []cards.Rank{straightHigh}}
	case len(trips) > 0:
		return Strength{Category: ThreeOfAKind, Tiebreak: append([]cards.Rank{trips[0]}, singles...)}
	case len(pairs) > 1:
		return Strength{Category: TwoPair, Tiebreak: append([]cards.Rank{pairs[0], pairs[1]}, singles...)}
	case len(pairs) == 1:
		return Strength{Category: Pair, Tiebreak: append([]cards.Rank{pairs[0]}, singles...)}
	default:
		return Strength{Category: HighCard, Tiebreak: ranksDesc}
	}
}

// straightHighCard returns the high card of a five-card straight, treating
// the ace as low in A-2-3-4-5
func straightHighCard(counts map[cards.Rank]int, handSize int) (cards.Rank, bool) {
	if handSize != 5 || len(counts) != 5 {
		return 0, false
	}
	low, high := cards.Ace, cards.Two
	for rank := range counts {
		if rank < low {
			low = rank
		}
		if rank > high {
			high = rank
		}
	}
	if high-low == 4 {
		return high, true
	}
	// Wheel: A-2-3-4-5 plays as a five-high straight
	if counts[cards.Ace] == 1 && counts[cards.Two] == 1 && counts[cards.Three] == 1 &&
		counts[cards.Four] == 1 && counts[cards.Five] == 1 {
		return cards.Five, true
	}
	return 0, false
}

func sortRanksDesc(ranks []cards.Rank) {
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
}
