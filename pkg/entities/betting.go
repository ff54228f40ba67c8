package entities

// ActionType is a betting action a player can take
type ActionType string

const (
	ActionCheck ActionType = "CHECK"
	ActionBet   ActionType = "BET"
	ActionCall  ActionType = "CALL"
	ActionRaise ActionType = "RAISE"
	ActionFold  ActionType = "FOLD"
	ActionAllIn ActionType = "ALL_IN"
)

// Action is one record in a betting round's ordered action list
type Action struct {
	Sequence int        `json:"sequence"`
	Seat     int        `json:"seat"`
	Type     ActionType `json:"type"`
	Amount   int        `json:"amount"`
	Forced   bool       `json:"forced"`  // ante, blind, or bring-in
	Timeout  bool       `json:"timeout"` // action taken on the player's behalf
}

// BettingRound is one betting street within one hand. Once Complete is set
// the round is immutable.
type BettingRound struct {
	Street       string   `json:"street"`
	CurrentActor int      `json:"currentActor"` // seat index
	CurrentBet   int      `json:"currentBet"`
	Complete     bool     `json:"complete"`
	Actions      []Action `json:"actions"`

	// FirstActor is the seat that opened the street; used for the
	// round-completion rule when nobody raises
	FirstActor int `json:"firstActor"`

	// LastAggressor is the seat that last bet or raised this street;
	// -1 when no voluntary aggression has occurred
	LastAggressor int `json:"lastAggressor"`
}

// NewBettingRound opens a betting street with the given first actor
func NewBettingRound(street string, firstActor int) *BettingRound {
	return &BettingRound{
		Street:        street,
		CurrentActor:  firstActor,
		FirstActor:    firstActor,
		LastAggressor: -1,
	}
}

// NextSequence returns the sequence number for the next action record
func (r *BettingRound) NextSequence() int {
	return len(r.Actions) + 1
}

// Record appends an action record with the next sequence number
func (r *BettingRound) Record(seat int, actionType ActionType, amount int, forced bool) {
	r.Actions = append(r.Actions, Action{
		Sequence: r.NextSequence(),
		Seat:     seat,
		Type:     actionType,
		Amount:   amount,
		Forced:   forced,
	})
}

// ActedSeats returns the set of seats with at least one voluntary
// (non-forced) action this round
func (r *BettingRound) ActedSeats() map[int]bool {
	acted := make(map[int]bool)
	for _, a := range r.Actions {
		if !a.Forced {
			acted[a.Seat] = true
		}
	}
	return acted
}
