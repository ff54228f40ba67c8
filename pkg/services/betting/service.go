package betting

import (
	"fmt"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/entities"
)

// Result reports what a processed action did to the round
type Result struct {
	// RoundComplete is set when the street closed with this action
	RoundComplete bool

	// WonByFold is set when all but one player folded; the hand ends
	// immediately with no showdown
	WonByFold bool

	// WinnerSeat is the sole remaining seat when WonByFold is set
	WinnerSeat int
}

// Service is the betting round engine. It validates and applies player
// actions against the game's open betting round. Every rejection happens
// before any mutation: an error means nothing changed.
type Service struct{}

// NewService creates a betting service
func NewService() *Service {
	return &Service{}
}

// OpenRound closes out per-street player state and opens a new betting
// round for the given street with the given first actor.
func (s *Service) OpenRound(game *entities.Game, street string, firstActor int) (*entities.BettingRound, error) {
	if open := game.CurrentRound(); open != nil {
		return nil, types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("cannot open %s: %s is still open", street, open.Street))
	}
	for _, p := range game.Players {
		p.ResetForNewRound()
	}
	round := entities.NewBettingRound(street, firstActor)
	game.Rounds = append(game.Rounds, round)
	game.CurrentActor = firstActor
	return round, nil
}

// PostForcedBet collects an ante, blind, or bring-in from a seat. Forced
// bets never count as voluntary action and never complete a round. A short
// stack posts all-in for what it has.
func (s *Service) PostForcedBet(game *entities.Game, seat int, amount int, setsCurrentBet bool) error {
	round := game.CurrentRound()
	if round == nil {
		return types.NewGameError(types.ErrInvalidAction, "no open betting round")
	}
	player := game.Player(seat)
	if player == nil {
		return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("no player at seat %d", seat))
	}

	paid := player.Pay(amount)
	s.creditPot(game, paid)
	if setsCurrentBet {
		if player.CurrentBet > round.CurrentBet {
			round.CurrentBet = player.CurrentBet
		}
	} else {
		// Antes are dead money: they feed the pot but do not count toward
		// matching the street bet
		player.CurrentBet -= paid
	}
	if player.AllIn {
		game.HadAllIn = true
	}
	round.Record(seat, entities.ActionBet, paid, true)
	return nil
}

// ProcessAction validates and applies one voluntary player action. The
// legality matrix: Check only when the player already matches the current
// bet; Bet only when there is no current bet; Call and Raise only against
// one; Fold and AllIn always.
func (s *Service) ProcessAction(game *entities.Game, seat int, actionType entities.ActionType, amount int) (*Result, error) {
	round := game.CurrentRound()
	if round == nil {
		return nil, types.NewGameError(types.ErrRoundComplete, "no open betting round")
	}
	if seat != round.CurrentActor {
		return nil, types.NewGameError(types.ErrNotPlayerTurn,
			fmt.Sprintf("seat %d acted but seat %d is up", seat, round.CurrentActor))
	}

	player := game.Player(seat)
	if player == nil {
		return nil, types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("no player at seat %d", seat))
	}
	if player.Folded {
		return nil, types.NewGameError(types.ErrPlayerFolded, "folded players cannot act")
	}
	if player.AllIn {
		return nil, types.NewGameError(types.ErrPlayerAllIn, "all-in players cannot act")
	}

	// Validate fully before mutating anything
	if err := s.validate(game, round, player, actionType, amount); err != nil {
		return nil, err
	}

	switch actionType {
	case entities.ActionCheck:
		round.Record(seat, entities.ActionCheck, 0, false)

	case entities.ActionFold:
		player.Folded = true
		round.Record(seat, entities.ActionFold, 0, false)

	case entities.ActionBet:
		paid := player.Pay(amount)
		s.creditPot(game, paid)
		round.CurrentBet = player.CurrentBet
		round.LastAggressor = seat
		round.Record(seat, entities.ActionBet, paid, false)

	case entities.ActionCall:
		paid := player.Pay(round.CurrentBet - player.CurrentBet)
		s.creditPot(game, paid)
		round.Record(seat, entities.ActionCall, paid, false)

	case entities.ActionRaise:
		paid := player.Pay(amount - player.CurrentBet)
		s.creditPot(game, paid)
		round.CurrentBet = player.CurrentBet
		round.LastAggressor = seat
		round.Record(seat, entities.ActionRaise, paid, false)

	case entities.ActionAllIn:
		paid := player.Pay(player.Chips)
		s.creditPot(game, paid)
		if player.CurrentBet > round.CurrentBet {
			round.CurrentBet = player.CurrentBet
			round.LastAggressor = seat
		}
		round.Record(seat, entities.ActionAllIn, paid, false)
	}

	if player.AllIn {
		game.HadAllIn = true
	}

	return s.advance(game, round, seat), nil
}

func (s *Service) validate(game *entities.Game, round *entities.BettingRound, player *entities.GamePlayer, actionType entities.ActionType, amount int) error {
	switch actionType {
	case entities.ActionCheck:
		if round.CurrentBet != player.CurrentBet {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("cannot check facing a bet of %d", round.CurrentBet))
		}

	case entities.ActionBet:
		if round.CurrentBet != 0 {
			return types.NewGameError(types.ErrInvalidAction, "cannot bet when a bet is already open; raise instead")
		}
		if amount <= 0 || (game.MinBet > 0 && amount < game.MinBet) {
			return types.NewGameError(types.ErrAmountOutOfRange,
				fmt.Sprintf("bet of %d is below the minimum of %d", amount, game.MinBet))
		}
		if game.MaxBet > 0 && amount > game.MaxBet {
			return types.NewGameError(types.ErrAmountOutOfRange,
				fmt.Sprintf("bet of %d exceeds the maximum of %d", amount, game.MaxBet))
		}
		if amount > player.Chips {
			return types.NewGameError(types.ErrInsufficientChips,
				fmt.Sprintf("bet of %d exceeds stack of %d", amount, player.Chips))
		}

	case entities.ActionCall:
		if round.CurrentBet == 0 || round.CurrentBet == player.CurrentBet {
			return types.NewGameError(types.ErrInvalidAction, "nothing to call; check instead")
		}

	case entities.ActionRaise:
		if round.CurrentBet == 0 {
			return types.NewGameError(types.ErrInvalidAction, "nothing to raise; bet instead")
		}
		minRaise := round.CurrentBet + game.MinBet
		if game.MinBet == 0 {
			minRaise = round.CurrentBet + 1
		}
		if amount < minRaise {
			return types.NewGameError(types.ErrAmountOutOfRange,
				fmt.Sprintf("raise to %d is below the minimum of %d", amount, minRaise))
		}
		if game.MaxBet > 0 && amount > game.MaxBet {
			return types.NewGameError(types.ErrAmountOutOfRange,
				fmt.Sprintf("raise to %d exceeds the maximum of %d", amount, game.MaxBet))
		}
		if amount-player.CurrentBet > player.Chips {
			return types.NewGameError(types.ErrInsufficientChips,
				fmt.Sprintf("raise to %d exceeds stack of %d", amount, player.Chips))
		}

	case entities.ActionFold, entities.ActionAllIn:
		// Always legal for a live, non-all-in player

	default:
		return types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("unknown action type %q", actionType))
	}
	return nil
}

// creditPot adds a contribution to the hand's main pot, creating it on the
// first chip. Side pots are carved out later, when betting closes.
func (s *Service) creditPot(game *entities.Game, amount int) {
	if amount == 0 {
		return
	}
	for _, pot := range game.Pots {
		if pot.Type == entities.PotMain && !pot.Awarded {
			pot.Amount += amount
			return
		}
	}
	game.Pots = append(game.Pots, &entities.Pot{
		HandNumber: game.HandNumber,
		Type:       entities.PotMain,
		Amount:     amount,
	})
}

// advance moves the action to the next seat or closes the round
func (s *Service) advance(game *entities.Game, round *entities.BettingRound, lastSeat int) *Result {
	result := &Result{}

	// Early completion: all but one player folded ends the hand outright
	if game.UnfoldedCount() <= 1 {
		s.closeRound(game, round)
		result.RoundComplete = true
		result.WonByFold = true
		for _, p := range game.Players {
			if p.InHand() {
				result.WinnerSeat = p.Seat
			}
		}
		return result
	}

	if s.isRoundComplete(game, round) {
		s.closeRound(game, round)
		result.RoundComplete = true
		return result
	}

	round.CurrentActor = game.NextActiveSeat(lastSeat)
	game.CurrentActor = round.CurrentActor
	return result
}

// CheckCompletion closes the round without a player action when nothing
// further can happen (e.g., forced bets left everyone all-in). Returns nil
// when the round is still live.
func (s *Service) CheckCompletion(game *entities.Game) *Result {
	round := game.CurrentRound()
	if round == nil {
		return nil
	}
	if game.UnfoldedCount() <= 1 {
		return s.advance(game, round, round.CurrentActor)
	}
	if s.allInOrMatched(game, round) {
		s.closeRound(game, round)
		return &Result{RoundComplete: true}
	}
	return nil
}

// allInOrMatched reports whether no further voluntary action is possible:
// every non-folded player is all-in, or all but one are and that one has
// matched the current bet.
func (s *Service) allInOrMatched(game *entities.Game, round *entities.BettingRound) bool {
	canAct := 0
	for _, p := range game.Players {
		if !p.InHand() || p.AllIn {
			continue
		}
		canAct++
		if p.CurrentBet != round.CurrentBet {
			return false
		}
	}
	return canAct <= 1 && game.HadAllIn
}

// isRoundComplete applies the completion rule: every non-folded player has
// matched the current bet or is all-in, and every player still able to act
// has acted voluntarily this street. The second clause is what returns the
// action to the last aggressor (or first actor when nobody raised) before
// closing.
func (s *Service) isRoundComplete(game *entities.Game, round *entities.BettingRound) bool {
	acted := round.ActedSeats()
	for _, p := range game.Players {
		if !p.InHand() {
			continue
		}
		if p.AllIn {
			continue
		}
		if p.CurrentBet != round.CurrentBet {
			return false
		}
		if !acted[p.Seat] {
			return false
		}
	}
	return true
}

func (s *Service) closeRound(game *entities.Game, round *entities.BettingRound) {
	round.Complete = true
	round.CurrentActor = -1
	game.CurrentActor = -1
	if round.LastAggressor != -1 {
		game.LastAggressor = round.LastAggressor
	}
}
