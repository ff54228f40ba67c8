package entities

import "time"

// PlayerOutcome classifies one player's result in a completed hand
type PlayerOutcome string

const (
	OutcomeWon         PlayerOutcome = "WON"
	OutcomeLost        PlayerOutcome = "LOST"
	OutcomeFolded      PlayerOutcome = "FOLDED"
	OutcomeSplitPotWon PlayerOutcome = "SPLIT_POT_WON"
)

// PlayerHandResult is one player's line in a hand summary
type PlayerHandResult struct {
	PlayerID   string        `json:"playerId"`
	Seat       int           `json:"seat"`
	Outcome    PlayerOutcome `json:"outcome"`
	AmountWon  int           `json:"amountWon"`
	FoldStreet string        `json:"foldStreet,omitempty"`
	HandShown  string        `json:"handShown,omitempty"` // description, empty when mucked
}

// HandSummary is the immutable record emitted at hand completion for
// archival. The history repository must reject a duplicate (GameID,
// HandNumber) submission idempotently.
type HandSummary struct {
	GameID      string              `json:"gameId"`
	Variant     string              `json:"variant"`
	HandNumber  int                 `json:"handNumber"`
	PotTotal    int                 `json:"potTotal"`
	WonByFold   bool                `json:"wonByFold"`
	Results     []*PlayerHandResult `json:"results"`
	CompletedAt time.Time           `json:"completedAt"`
}
