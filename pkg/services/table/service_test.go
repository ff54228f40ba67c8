package table

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/blondie/internal/logging"
	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/games"
	gamerepo "github.com/fadedpez/blondie/pkg/repositories/game"
	historyrepo "github.com/fadedpez/blondie/pkg/repositories/history"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *gamerepo.MemoryRepository
	history *historyrepo.MemoryRepository
	events  *broadcast.MemoryBroadcaster
	svc     *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = gamerepo.NewMemoryRepository()
	s.history = historyrepo.NewMemoryRepository()
	s.events = broadcast.NewMemoryBroadcaster()
	s.svc = NewService(s.repo, s.history, games.DefaultRegistry(), s.events,
		logging.NewLogger(logging.ERROR), Options{
			BetweenHandsDelay: time.Minute,
			IdleThreshold:     time.Hour,
			ChipCheckPause:    time.Minute,
			AllInRevealDelay:  0,
		})
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// newTable creates a game, seats players p0..pN-1 with the given stacks, and
// returns the game id
func (s *ServiceSuite) newTable(params CreateGameParams, stacks ...int) string {
	game, err := s.svc.CreateGame(s.ctx, params)
	s.Require().NoError(err)
	names := []string{"Tuco", "Angel", "Blondie", "Sentenza"}
	for i, stack := range stacks {
		_, err := s.svc.Join(s.ctx, game.ID, playerID(i), names[i%len(names)], stack)
		s.Require().NoError(err)
	}
	return game.ID
}

func playerID(i int) string {
	return fmt.Sprintf("p%d", i)
}

func (s *ServiceSuite) game(gameID string) *entities.Game {
	game, err := s.repo.Get(s.ctx, gameID)
	s.Require().NoError(err)
	return game
}

// actorID resolves the player whose turn it is
func (s *ServiceSuite) actorID(game *entities.Game) string {
	p := game.Player(game.CurrentActor)
	s.Require().NotNil(p)
	return p.PlayerID
}

func (s *ServiceSuite) TestCreateGameUnknownVariant() {
	_, err := s.svc.CreateGame(s.ctx, CreateGameParams{Variant: "canasta"})
	s.True(types.IsGameError(err, types.ErrUnknownVariant))
}

func (s *ServiceSuite) TestJoinValidation() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)

	_, err := s.svc.Join(s.ctx, id, "p0", "Tuco", 500)
	s.True(types.IsGameError(err, types.ErrAlreadyJoined))

	_, err = s.svc.Join(s.ctx, id, "p9", "Shorty", 0)
	s.True(types.IsGameError(err, types.ErrInsufficientChips))
}

func (s *ServiceSuite) TestStartDealsAndPostsBlinds() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20, MinBet: 20}, 1000, 1000, 1000)

	game, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(entities.StatusInProgress, game.Status)
	s.Equal(1, game.HandNumber)
	s.Equal(games.PhasePreFlop, game.Phase)
	for _, p := range game.Players {
		s.Len(game.PlayerCards(p.Seat), 2)
	}

	// Button moved to seat 1, so seat 2 posts small and seat 0 posts big
	s.Equal(1, game.DealerSeat)
	s.Equal(990, game.Player(2).Chips)
	s.Equal(980, game.Player(0).Chips)
	s.Equal(30, game.Pots[0].Amount)
	s.Equal(1, game.CurrentActor)

	s.Equal(3000, game.TotalChips())
	s.NotEmpty(s.events.EventsOfType(broadcast.EventHandStarted))
}

func (s *ServiceSuite) TestStartNeedsEnoughPlayers() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.True(types.IsGameError(err, types.ErrNotEnoughPlayers))
}

func (s *ServiceSuite) TestWonByFold() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20, MinBet: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Dealer folds, small blind folds, big blind wins without showdown
	game := s.game(id)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)

	s.Equal(games.PhaseComplete, game.Phase)
	s.NotNil(game.NextHandAt)
	s.Equal(1010, game.Player(0).Chips) // posted 20, won the 30 pot
	s.Equal(3000, game.TotalChips())

	summaries, err := s.history.GetHandSummaries(s.ctx, id, 10)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.True(summaries[0].WonByFold)
	s.NotEmpty(s.events.EventsOfType(broadcast.EventHandComplete))
}

func (s *ServiceSuite) TestCheckedDownToShowdown() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20, MinBet: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Call/check every street down to the river
	for i := 0; i < 20; i++ {
		game := s.game(id)
		if game.Phase == games.PhaseShowdown {
			break
		}
		s.Require().NotEqual(-1, game.CurrentActor, "phase %s has no actor", game.Phase)
		actor := game.Player(game.CurrentActor)
		action := entities.ActionCheck
		if round := game.CurrentRound(); round != nil && actor.CurrentBet < round.CurrentBet {
			action = entities.ActionCall
		}
		_, err := s.svc.ProcessAction(s.ctx, id, actor.PlayerID, action, 0)
		s.Require().NoError(err)
	}

	game := s.game(id)
	s.Require().Equal(games.PhaseShowdown, game.Phase)
	s.Len(game.CommunityCards(), 5)

	// Nobody bet, so reveals run clockwise from the button
	for _, seat := range game.SeatsFrom(game.DealerSeat) {
		game, err = s.svc.ProcessReveal(s.ctx, id, game.Player(seat).PlayerID)
		s.Require().NoError(err)
	}

	s.Equal(games.PhaseComplete, game.Phase)
	s.Equal(3000, game.TotalChips())

	won := 0
	for _, p := range game.Players {
		if p.Chips > 980 {
			won += p.Chips - 980
		}
	}
	s.Equal(60, won)

	summaries, err := s.history.GetHandSummaries(s.ctx, id, 10)
	s.Require().NoError(err)
	s.Len(summaries, 1)
}

func (s *ServiceSuite) TestAllInFastForward() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20, MinBet: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Heads-up: the button opens preflop and shoves, the big blind calls
	game := s.game(id)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionAllIn, 0)
	s.Require().NoError(err)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionCall, 0)
	s.Require().NoError(err)

	s.Equal(games.PhaseAllInDraw, game.Phase)
	s.Require().NotNil(game.DrawCompleteAt)
	s.Equal(2000, game.Pots[0].Amount)

	// The scheduler runs the board out and resolves the showdown
	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.Equal(games.PhaseComplete, game.Phase)
	s.Len(game.CommunityCards(), 5)
	s.Equal(2000, game.TotalChips())

	summaries, err := s.history.GetHandSummaries(s.ctx, id, 10)
	s.Require().NoError(err)
	s.Len(summaries, 1)
	s.NotEmpty(s.events.EventsOfType(broadcast.EventPotAwarded))
}

func (s *ServiceSuite) TestGutsDeclarationsResolveInline() {
	id := s.newTable(CreateGameParams{Variant: "guts", Ante: 5}, 1000, 1000, 1000)
	game, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	s.Equal("DropOrStay", game.Phase)
	s.Equal(15, game.Pots[0].Amount)
	for _, p := range game.Players {
		s.Len(game.PlayerCards(p.Seat), 3)
	}

	// Two stay, one drops: the stayers compare hands and the pot pays out
	game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), true)
	s.Require().NoError(err)
	game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), true)
	s.Require().NoError(err)
	game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), false)
	s.Require().NoError(err)

	s.Equal(games.PhaseComplete, game.Phase)
	s.Equal(3000, game.TotalChips())
	for _, pot := range game.Pots {
		s.True(pot.Awarded)
	}

	summaries, err := s.history.GetHandSummaries(s.ctx, id, 10)
	s.Require().NoError(err)
	s.Len(summaries, 1)
	s.False(summaries[0].WonByFold)
}

func (s *ServiceSuite) TestCarryOverRollsIntoNextHand() {
	handler := games.NewGuts()
	game := &entities.Game{
		ID:         "carry",
		Variant:    "guts",
		Status:     entities.StatusInProgress,
		Phase:      games.PhaseComplete,
		HandNumber: 3,
		Ante:       5,
		Players: []*entities.GamePlayer{
			entities.NewGamePlayer("p0", "Tuco", 0, 100),
			entities.NewGamePlayer("p1", "Angel", 1, 100),
		},
		// The deck beat a lone stayer last hand; nobody was paid
		Pots: []*entities.Pot{{HandNumber: 3, Type: entities.PotMain, Amount: 30}},
	}

	em := &emitter{}
	s.Require().NoError(s.svc.startHand(s.ctx, game, handler, em))

	s.Equal(4, game.HandNumber)
	s.Require().Len(game.Pots, 1)
	s.Equal(40, game.Pots[0].Amount) // 30 carried + two antes
	s.Equal(95, game.Player(0).Chips)
	s.Equal(95, game.Player(1).Chips)
	s.Equal(230, game.TotalChips())
}

func (s *ServiceSuite) TestJoinMidHandWaitsForNextHand() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	game, err := s.svc.Join(s.ctx, id, "p2", "Blondie", 1000)
	s.Require().NoError(err)

	joined := game.PlayerByID("p2")
	s.Require().NotNil(joined)
	s.True(joined.Folded)
	s.Empty(game.PlayerCards(joined.Seat))
}

func (s *ServiceSuite) TestLeaveMidHandFoldsAndAwards() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// The button walks away heads-up; the blind wins the forced bets
	game := s.game(id)
	leaver := s.actorID(game)
	game, err = s.svc.Leave(s.ctx, id, leaver)
	s.Require().NoError(err)

	s.True(game.PlayerByID(leaver).Left)
	s.Equal(games.PhaseComplete, game.Phase)
	s.Equal(2000, game.TotalChips())
}

func (s *ServiceSuite) TestLeaveDuringDrawPassesTurn() {
	id := s.newTable(CreateGameParams{Variant: "fivedraw", Ante: 5, MinBet: 10}, 1000, 1000, 1000)
	game, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Check down the first betting street to reach the draw
	s.Equal(games.PhaseFirstBetting, game.Phase)
	for i := 0; i < 3; i++ {
		game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionCheck, 0)
		s.Require().NoError(err)
	}
	s.Require().Equal(games.PhaseDraw, game.Phase)

	// The player due to draw walks away; the turn moves on
	leaver := s.actorID(game)
	leaverSeat := game.PlayerByID(leaver).Seat
	game, err = s.svc.Leave(s.ctx, id, leaver)
	s.Require().NoError(err)

	s.Equal(games.PhaseDraw, game.Phase)
	s.NotEqual(leaverSeat, game.CurrentActor)

	// The two remaining players stand pat and the hand moves to the second
	// betting street
	game, err = s.svc.ProcessDraw(s.ctx, id, s.actorID(game), nil)
	s.Require().NoError(err)
	game, err = s.svc.ProcessDraw(s.ctx, id, s.actorID(game), nil)
	s.Require().NoError(err)
	s.Equal(games.PhaseSecondBetting, game.Phase)
}

func (s *ServiceSuite) TestLeaveDuringDeclarationsPassesTurn() {
	id := s.newTable(CreateGameParams{Variant: "guts", Ante: 5}, 1000, 1000, 1000)
	game, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// The player due to declare walks away; the turn moves on
	leaver := s.actorID(game)
	leaverSeat := game.PlayerByID(leaver).Seat
	game, err = s.svc.Leave(s.ctx, id, leaver)
	s.Require().NoError(err)

	s.Equal(games.PhaseDropOrStay, game.Phase)
	s.NotEqual(leaverSeat, game.CurrentActor)

	// The two remaining players both stay and the hand resolves
	game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), true)
	s.Require().NoError(err)
	game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), true)
	s.Require().NoError(err)

	s.Equal(games.PhaseComplete, game.Phase)
	s.Equal(3000, game.TotalChips())
	for _, pot := range game.Pots {
		s.True(pot.Awarded)
	}
}

func (s *ServiceSuite) TestMaintainTimesOutStalledActor() {
	s.svc.opts.TurnTimeout = time.Nanosecond
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20, MinBet: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// The button stalls facing the big blind; the scheduler folds for them
	time.Sleep(time.Millisecond)
	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game := s.game(id)
	s.True(game.Player(1).Folded)
	s.NotEqual(1, game.CurrentActor)

	round := game.CurrentRound()
	s.Require().NotNil(round)
	last := round.Actions[len(round.Actions)-1]
	s.Equal(entities.ActionFold, last.Type)
	s.Equal(1, last.Seat)
	s.True(last.Timeout)

	events := s.events.EventsOfType(broadcast.EventActionProcessed)
	s.Require().NotEmpty(events)
	s.Equal(true, events[len(events)-1].Payload["timeout"])
}

func (s *ServiceSuite) TestMaintainStartsNextHand() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	game := s.game(id)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)
	_, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.Equal(2, game.HandNumber)
	s.Equal(entities.StatusInProgress, game.Status)
	s.Equal(games.PhasePreFlop, game.Phase)
}

func (s *ServiceSuite) TestMaintainSitsOutShortStacks() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	game := s.game(id)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)
	_, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)

	// Seat 2 can no longer cover the big blind
	game = s.game(id)
	game.Player(2).Chips = 5
	s.Require().NoError(s.repo.Save(s.ctx, game))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.True(game.Player(2).SittingOut)
	s.Equal(2, game.HandNumber)
	s.Equal(entities.StatusInProgress, game.Status)
	s.Empty(game.PlayerCards(2))
}

func (s *ServiceSuite) TestMaintainPausesWhenUnderstaffed() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	game := s.game(id)
	_, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)

	// Only one player can cover the blinds for the next hand
	game = s.game(id)
	game.Player(0).Chips = 5
	s.Require().NoError(s.repo.Save(s.ctx, game))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.Equal(entities.StatusBetweenHands, game.Status)
	s.Nil(game.NextHandAt)
	s.NotEmpty(s.events.EventsOfType(broadcast.EventGamePaused))
}

// completeGutsHand plays a started guts hand to completion by having every
// remaining player stay
func (s *ServiceSuite) completeGutsHand(id string) {
	game := s.game(id)
	for game.CurrentActor >= 0 && game.Phase == games.PhaseDropOrStay {
		var err error
		game, err = s.svc.ProcessDropOrStay(s.ctx, id, s.actorID(game), true)
		s.Require().NoError(err)
	}
	s.Require().Equal(games.PhaseComplete, s.game(id).Phase)
}

func (s *ServiceSuite) TestMaintainAutoFoldsShortStackAtDeal() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "guts", Ante: 5}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)
	s.completeGutsHand(id)

	// One player cannot cover the ante, but two funded players remain so the
	// next hand still deals. Guts folds the short stack rather than sitting
	// them out.
	game := s.game(id)
	game.Player(1).Chips = 2
	s.Require().NoError(s.repo.Save(s.ctx, game))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.Equal(2, game.HandNumber)
	s.Equal(entities.StatusInProgress, game.Status)
	short := game.Player(1)
	s.True(short.Folded)
	s.False(short.SittingOut)
	s.Equal(2, short.Chips) // no ante from a folded seat
	s.Empty(game.PlayerCards(1))
	s.False(game.PausedForChipCheck)
}

func (s *ServiceSuite) TestMaintainChipCheckGracePeriod() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "guts", Ante: 5}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)
	s.completeGutsHand(id)

	// Heads up with one short stack the table is understaffed: the game
	// pauses for the grace period instead of dealing
	game := s.game(id)
	game.Player(1).Chips = 2
	s.Require().NoError(s.repo.Save(s.ctx, game))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.True(game.PausedForChipCheck)
	s.Require().NotNil(game.ResumeAt)
	s.Equal(1, game.HandNumber)

	// Still understaffed when the grace period elapses: park the table
	past := time.Now().Add(-time.Second)
	game.ResumeAt = &past
	s.Require().NoError(s.repo.Save(s.ctx, game))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.False(game.PausedForChipCheck)
	s.Equal(entities.StatusBetweenHands, game.Status)
	s.Equal(1, game.HandNumber)
	s.NotEmpty(s.events.EventsOfType(broadcast.EventGamePaused))
}

func (s *ServiceSuite) TestMaintainAbandonsBrokeIdleGame() {
	s.svc.opts.IdleThreshold = time.Nanosecond
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Nobody left at the table holds chips
	game := s.game(id)
	for _, p := range game.Players {
		p.Chips = 0
	}
	s.Require().NoError(s.repo.Save(s.ctx, game))

	time.Sleep(time.Millisecond)
	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game = s.game(id)
	s.Equal(entities.StatusCompleted, game.Status)
	s.NotEmpty(s.events.EventsOfType(broadcast.EventGameCompleted))
}

func (s *ServiceSuite) TestMaintainKeepsFundedIdleGame() {
	s.svc.opts.IdleThreshold = time.Nanosecond
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	// Idle but funded: the table stays open
	time.Sleep(time.Millisecond)
	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))

	game := s.game(id)
	s.Equal(entities.StatusInProgress, game.Status)
	s.Empty(s.events.EventsOfType(broadcast.EventGameCompleted))
}

func (s *ServiceSuite) TestMaintainMissingGameDoesNotBlockOthers() {
	s.svc.opts.BetweenHandsDelay = 0
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000, 1000)
	_, err := s.svc.StartGame(s.ctx, id)
	s.Require().NoError(err)

	game := s.game(id)
	game, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)
	_, err = s.svc.ProcessAction(s.ctx, id, s.actorID(game), entities.ActionFold, 0)
	s.Require().NoError(err)

	err = s.svc.MaintainGame(s.ctx, "no-such-game")
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	s.Require().NoError(s.svc.MaintainGame(s.ctx, id))
	s.Equal(2, s.game(id).HandNumber)
}

func (s *ServiceSuite) TestProcessActionWrongGameState() {
	id := s.newTable(CreateGameParams{Variant: "holdem", SmallBlind: 10, BigBlind: 20}, 1000, 1000)
	_, err := s.svc.ProcessAction(s.ctx, id, "p0", entities.ActionCheck, 0)
	s.True(types.IsGameError(err, types.ErrWrongPhase))
}
