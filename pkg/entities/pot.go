package entities

import "fmt"

// PotType distinguishes the main pot from side pots
type PotType string

const (
	PotMain PotType = "MAIN"
	PotSide PotType = "SIDE"
)

// Pot is a pool of contributed chips with its own eligible-winner set.
// Multiple pots coexist for one hand when players go all-in at different
// stack depths. Once awarded, a pot's amount never changes again.
type Pot struct {
	HandNumber int     `json:"handNumber"`
	Type       PotType `json:"type"`
	SideIndex  int     `json:"sideIndex"` // 0 for the main pot, 1..n for side pots
	Amount     int     `json:"amount"`
	Eligible   []int   `json:"eligible"` // seats that may win this pot
	Awarded    bool    `json:"awarded"`

	// Winners and their shares are recorded when the pot is awarded
	Winners map[int]int `json:"winners,omitempty"` // seat -> amount
}

// IsEligible reports whether the given seat can win this pot
func (p *Pot) IsEligible(seat int) bool {
	for _, s := range p.Eligible {
		if s == seat {
			return true
		}
	}
	return false
}

// RemoveEligible strikes a seat from the eligible set (e.g., after a muck)
func (p *Pot) RemoveEligible(seat int) {
	for i, s := range p.Eligible {
		if s == seat {
			p.Eligible = append(p.Eligible[:i], p.Eligible[i+1:]...)
			return
		}
	}
}

// Label returns "Main" or "Side-N" for announcements and logs
func (p *Pot) Label() string {
	if p.Type == PotMain {
		return "Main"
	}
	return fmt.Sprintf("Side-%d", p.SideIndex)
}
