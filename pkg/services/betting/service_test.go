package betting

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
)

type ServiceSuite struct {
	suite.Suite
	svc  *Service
	game *entities.Game
}

func (s *ServiceSuite) SetupTest() {
	s.svc = NewService()
	s.game = &entities.Game{
		ID:            "game1",
		Variant:       "holdem",
		Status:        entities.StatusInProgress,
		HandNumber:    1,
		DealerSeat:    0,
		MinBet:        10,
		LastAggressor: -1,
		Players: []*entities.GamePlayer{
			entities.NewGamePlayer("p0", "Tuco", 0, 100),
			entities.NewGamePlayer("p1", "Angel", 1, 100),
			entities.NewGamePlayer("p2", "Blondie", 2, 100),
		},
	}
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) totalChips() int {
	return s.game.TotalChips()
}

func (s *ServiceSuite) TestOpenRound() {
	round, err := s.svc.OpenRound(s.game, "preflop", 1)
	s.NoError(err)
	s.Equal("preflop", round.Street)
	s.Equal(1, round.CurrentActor)
	s.Equal(1, s.game.CurrentActor)

	// A second open fails while the first is live
	_, err = s.svc.OpenRound(s.game, "flop", 1)
	s.Error(err)
	s.True(types.IsGameError(err, types.ErrInvalidAction))
}

func (s *ServiceSuite) TestActingOutOfTurnNeverMutates() {
	s.svc.OpenRound(s.game, "preflop", 1)
	before := s.totalChips()

	_, err := s.svc.ProcessAction(s.game, 2, entities.ActionBet, 20)
	s.True(types.IsGameError(err, types.ErrNotPlayerTurn))
	s.Equal(before, s.totalChips())
	s.Equal(100, s.game.Player(2).Chips)
	s.Empty(s.game.CurrentRound().Actions)
}

func (s *ServiceSuite) TestCheckOnlyWithNoBet() {
	s.svc.OpenRound(s.game, "flop", 1)

	_, err := s.svc.ProcessAction(s.game, 1, entities.ActionCheck, 0)
	s.NoError(err)

	_, err = s.svc.ProcessAction(s.game, 2, entities.ActionBet, 20)
	s.NoError(err)

	// Seat 0 cannot check facing a bet
	_, err = s.svc.ProcessAction(s.game, 0, entities.ActionCheck, 0)
	s.True(types.IsGameError(err, types.ErrInvalidAction))
}

func (s *ServiceSuite) TestBetOnlyWhenNoBetOpen() {
	s.svc.OpenRound(s.game, "flop", 1)
	_, err := s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)
	s.NoError(err)

	_, err = s.svc.ProcessAction(s.game, 2, entities.ActionBet, 20)
	s.True(types.IsGameError(err, types.ErrInvalidAction))
}

func (s *ServiceSuite) TestBetBeyondStackRejected() {
	s.svc.OpenRound(s.game, "flop", 1)
	before := s.totalChips()

	_, err := s.svc.ProcessAction(s.game, 1, entities.ActionBet, 500)
	s.True(types.IsGameError(err, types.ErrInsufficientChips))
	s.Equal(before, s.totalChips())
}

func (s *ServiceSuite) TestBetBelowMinimumRejected() {
	s.svc.OpenRound(s.game, "flop", 1)
	_, err := s.svc.ProcessAction(s.game, 1, entities.ActionBet, 5)
	s.True(types.IsGameError(err, types.ErrAmountOutOfRange))
}

func (s *ServiceSuite) TestCheckAroundCompletesRound() {
	s.svc.OpenRound(s.game, "flop", 1)

	res, err := s.svc.ProcessAction(s.game, 1, entities.ActionCheck, 0)
	s.NoError(err)
	s.False(res.RoundComplete)

	res, err = s.svc.ProcessAction(s.game, 2, entities.ActionCheck, 0)
	s.NoError(err)
	s.False(res.RoundComplete)

	// The Nth check completes the round exactly
	res, err = s.svc.ProcessAction(s.game, 0, entities.ActionCheck, 0)
	s.NoError(err)
	s.True(res.RoundComplete)
	s.True(s.game.CurrentRound() == nil)
}

func (s *ServiceSuite) TestBetCallCallCompletesRound() {
	s.svc.OpenRound(s.game, "flop", 1)

	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)
	res, _ := s.svc.ProcessAction(s.game, 2, entities.ActionCall, 0)
	s.False(res.RoundComplete)

	res, err := s.svc.ProcessAction(s.game, 0, entities.ActionCall, 0)
	s.NoError(err)
	s.True(res.RoundComplete)

	// Last aggressor is recorded for the showdown reveal order
	s.Equal(1, s.game.LastAggressor)

	// Chip conservation: 3 x 20 landed in the main pot
	s.Len(s.game.Pots, 1)
	s.Equal(60, s.game.Pots[0].Amount)
	s.Equal(300, s.totalChips())
}

func (s *ServiceSuite) TestAllButOneFoldEndsHandImmediately() {
	s.svc.OpenRound(s.game, "flop", 1)

	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)
	res, _ := s.svc.ProcessAction(s.game, 2, entities.ActionFold, 0)
	s.False(res.WonByFold)

	// Second fold ends the hand before any bet matching
	res, err := s.svc.ProcessAction(s.game, 0, entities.ActionFold, 0)
	s.NoError(err)
	s.True(res.RoundComplete)
	s.True(res.WonByFold)
	s.Equal(1, res.WinnerSeat)
}

func (s *ServiceSuite) TestRaiseReopensAction() {
	s.svc.OpenRound(s.game, "flop", 1)

	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)
	s.svc.ProcessAction(s.game, 2, entities.ActionRaise, 40)
	res, _ := s.svc.ProcessAction(s.game, 0, entities.ActionCall, 0)
	s.False(res.RoundComplete)

	// Original bettor still owes 20 more; round is open until they respond
	res, err := s.svc.ProcessAction(s.game, 1, entities.ActionCall, 0)
	s.NoError(err)
	s.True(res.RoundComplete)
	s.Equal(2, s.game.LastAggressor)
	s.Equal(120, s.game.Pots[0].Amount)
}

func (s *ServiceSuite) TestRaiseBelowMinimumRejected() {
	s.svc.OpenRound(s.game, "flop", 1)
	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)

	_, err := s.svc.ProcessAction(s.game, 2, entities.ActionRaise, 25)
	s.True(types.IsGameError(err, types.ErrAmountOutOfRange))
}

func (s *ServiceSuite) TestAllInAlwaysLegal() {
	s.game.Player(2).Chips = 15
	s.svc.OpenRound(s.game, "flop", 1)

	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)

	// Seat 2 cannot cover the bet but can always move all-in
	res, err := s.svc.ProcessAction(s.game, 2, entities.ActionAllIn, 0)
	s.NoError(err)
	s.False(res.RoundComplete)
	s.True(s.game.Player(2).AllIn)
	s.Equal(0, s.game.Player(2).Chips)
	s.True(s.game.HadAllIn)

	// A short all-in does not lower the current bet
	s.Equal(20, s.game.CurrentRound().CurrentBet)
}

func (s *ServiceSuite) TestAllInAboveCurrentBetIsAggression() {
	s.svc.OpenRound(s.game, "flop", 1)
	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 20)

	res, err := s.svc.ProcessAction(s.game, 2, entities.ActionAllIn, 0)
	s.NoError(err)
	s.False(res.RoundComplete)
	s.Equal(100, s.game.CurrentRound().CurrentBet)
	s.Equal(2, s.game.CurrentRound().LastAggressor)
}

func (s *ServiceSuite) TestFoldedPlayerCannotAct() {
	s.svc.OpenRound(s.game, "flop", 1)
	s.svc.ProcessAction(s.game, 1, entities.ActionFold, 0)

	// Action moved on; seat 1 is no longer current and is also folded
	_, err := s.svc.ProcessAction(s.game, 1, entities.ActionCheck, 0)
	s.True(types.IsGameError(err, types.ErrNotPlayerTurn))
}

func (s *ServiceSuite) TestActionSequenceNumbersAreMonotonic() {
	s.svc.OpenRound(s.game, "flop", 1)
	s.svc.ProcessAction(s.game, 1, entities.ActionCheck, 0)
	s.svc.ProcessAction(s.game, 2, entities.ActionBet, 20)
	s.svc.ProcessAction(s.game, 0, entities.ActionCall, 0)

	round := s.game.Rounds[0]
	for i, action := range round.Actions {
		s.Equal(i+1, action.Sequence)
	}
}

func (s *ServiceSuite) TestForcedBetsDontCountAsVoluntaryAction() {
	s.svc.OpenRound(s.game, "preflop", 0)

	// Blinds: seat 1 small, seat 2 big
	s.NoError(s.svc.PostForcedBet(s.game, 1, 5, true))
	s.NoError(s.svc.PostForcedBet(s.game, 2, 10, true))
	s.Equal(10, s.game.CurrentRound().CurrentBet)

	s.svc.ProcessAction(s.game, 0, entities.ActionCall, 0)
	s.svc.ProcessAction(s.game, 1, entities.ActionCall, 0)

	// Big blind has matched but never acted voluntarily: the option is live
	res, err := s.svc.ProcessAction(s.game, 2, entities.ActionCheck, 0)
	s.NoError(err)
	s.True(res.RoundComplete)
}

func (s *ServiceSuite) TestCheckCompletionWhenEveryoneAllIn() {
	s.game.Player(0).Chips = 30
	s.game.Player(1).Chips = 30
	s.game.Player(2).Chips = 30
	s.svc.OpenRound(s.game, "preflop", 0)

	// Antes put everyone all-in; no voluntary action is possible
	for _, seat := range []int{0, 1, 2} {
		s.NoError(s.svc.PostForcedBet(s.game, seat, 30, false))
	}

	res := s.svc.CheckCompletion(s.game)
	s.NotNil(res)
	s.True(res.RoundComplete)
}

func (s *ServiceSuite) TestChipConservationAcrossActions() {
	s.svc.OpenRound(s.game, "flop", 1)

	start := s.totalChips()
	s.svc.ProcessAction(s.game, 1, entities.ActionBet, 30)
	s.Equal(start, s.totalChips())
	s.svc.ProcessAction(s.game, 2, entities.ActionRaise, 60)
	s.Equal(start, s.totalChips())
	s.svc.ProcessAction(s.game, 0, entities.ActionFold, 0)
	s.Equal(start, s.totalChips())
	s.svc.ProcessAction(s.game, 1, entities.ActionAllIn, 0)
	s.Equal(start, s.totalChips())
}
