package games

import (
	"github.com/fadedpez/blondie/pkg/cards"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/poker"
)

// FollowQueen is seven-card stud where queens are wild, along with the rank
// of the face-up card dealt immediately after the most recent face-up queen.
// The follower rank changes as new queens are exposed; if a queen is the last
// exposed card, only queens are wild.
type FollowQueen struct {
	*SevenStud
}

// NewFollowQueen creates the follow-the-queen handler
func NewFollowQueen() *FollowQueen { return &FollowQueen{SevenStud: NewSevenStud()} }

func (f *FollowQueen) Code() string { return "followqueen" }
func (f *FollowQueen) Name() string { return "Follow the Queen" }

func (f *FollowQueen) DealCards(game *entities.Game, phase string) error {
	if err := f.SevenStud.DealCards(game, phase); err != nil {
		return err
	}
	f.markWilds(game)
	return nil
}

func (f *FollowQueen) ProcessDrawComplete(game *entities.Game) error {
	if err := f.SevenStud.ProcessDrawComplete(game); err != nil {
		return err
	}
	f.markWilds(game)
	return nil
}

// wildRanks returns the currently wild ranks from the exposed deal sequence
func (f *FollowQueen) wildRanks(game *entities.Game) map[cards.Rank]bool {
	wild := map[cards.Rank]bool{cards.Queen: true}

	// game.Cards is append-only in deal order, so the last exposed queen and
	// its follower fall out of a single scan
	var follower *cards.Rank
	sawQueen := false
	for _, c := range game.Cards {
		if !c.FaceUp || c.Location != entities.LocationPlayerHand {
			continue
		}
		if c.Card.Rank == cards.Queen {
			sawQueen = true
			follower = nil
			continue
		}
		if sawQueen && follower == nil {
			r := c.Card.Rank
			follower = &r
		}
	}
	if follower != nil {
		wild[*follower] = true
	}
	return wild
}

// markWilds retags every in-play card against the current wild ranks. Down
// cards of a wild rank are wild too.
func (f *FollowQueen) markWilds(game *entities.Game) {
	wild := f.wildRanks(game)
	for _, c := range game.Cards {
		c.Wild = wild[c.Card.Rank]
	}
}

func (f *FollowQueen) PerformShowdown(game *entities.Game) (map[int]poker.Strength, error) {
	wild := f.wildRanks(game)
	isWild := func(c cards.Card) bool { return wild[c.Rank] }

	strengths := make(map[int]poker.Strength)
	for _, p := range game.ActivePlayers() {
		strengths[p.Seat] = poker.Evaluate(cardsOf(game.PlayerCards(p.Seat)), isWild)
	}
	return strengths, nil
}
