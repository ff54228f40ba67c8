package entities

// GamePlayer is one seat occupied by one player within one game. Seats are
// stable for the game's lifetime; a departed player is marked Left, never
// physically removed mid-hand.
type GamePlayer struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`

	Chips            int `json:"chips"`
	CurrentBet       int `json:"currentBet"`       // this betting round
	TotalContributed int `json:"totalContributed"` // this hand, across all rounds

	Folded     bool `json:"folded"`
	AllIn      bool `json:"allIn"`
	SittingOut bool `json:"sittingOut"`
	Connected  bool `json:"connected"`
	HasDrawn   bool `json:"hasDrawn"`
	Left       bool `json:"left"`

	// Stayed records the drop-or-stay decision in variants that have one
	Stayed bool `json:"stayed"`
}

// NewGamePlayer seats a player with a starting stack
func NewGamePlayer(playerID, name string, seat, chips int) *GamePlayer {
	return &GamePlayer{
		PlayerID:  playerID,
		Name:      name,
		Seat:      seat,
		Chips:     chips,
		Connected: true,
	}
}

// InHand reports whether the player is still contesting the current hand
func (p *GamePlayer) InHand() bool {
	return !p.Folded && !p.Left && !p.SittingOut
}

// CanAct reports whether the player may take a betting action
func (p *GamePlayer) CanAct() bool {
	return p.InHand() && !p.AllIn
}

// Pay moves up to amount chips from the stack, marking the player all-in
// when the stack is exhausted. Returns the amount actually paid.
func (p *GamePlayer) Pay(amount int) int {
	if amount >= p.Chips {
		amount = p.Chips
		p.AllIn = true
	}
	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalContributed += amount
	return amount
}

// ResetForNewRound clears the per-street bet counter
func (p *GamePlayer) ResetForNewRound() {
	p.CurrentBet = 0
}

// ResetForNewHand clears all per-hand flags and counters
func (p *GamePlayer) ResetForNewHand() {
	p.CurrentBet = 0
	p.TotalContributed = 0
	p.Folded = false
	p.AllIn = false
	p.HasDrawn = false
	p.Stayed = false
}
