package table

import (
	"context"
	"fmt"
	"time"

	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/cards"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/games"
	"github.com/fadedpez/blondie/pkg/services/betting"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// startHand deals a fresh hand: reset per-hand state, shuffle, deal the
// initial phase, collect forced bets, and open the first betting round.
// Unawarded pot chips from the previous hand (guts carry-overs) roll into
// the new main pot.
func (s *Service) startHand(ctx context.Context, game *entities.Game, handler games.Handler, em *emitter) error {
	if len(game.EligiblePlayers()) < handler.MinPlayers() {
		return types.NewGameError(types.ErrNotEnoughPlayers,
			fmt.Sprintf("%s needs at least %d players", handler.Name(), handler.MinPlayers()))
	}

	carry := s.pots.Total(game)

	game.ResetForNewHand()
	game.Status = entities.StatusInProgress

	// AUTO_FOLD variants fold short stacks out of the hand; they stay
	// seated and eligible, unlike a SIT_OUT
	if check := handler.GetChipCheckConfiguration(); check.Enabled && check.Action == games.ChipCheckAutoFold {
		if required := game.Ante + game.BigBlind + game.BringIn; required > 0 {
			for _, p := range game.EligiblePlayers() {
				if p.Chips < required {
					p.Folded = true
					s.logger.Info("Game %s: auto-folding %s (stack %d below %d)", game.ID, p.Name, p.Chips, required)
				}
			}
		}
	}

	deck := cards.NewDeck()
	deck.Shuffle()
	game.DeckRemainder = deck.Draw(deck.Remaining())

	game.Phase = handler.GetInitialPhase(game)
	if err := handler.DealCards(game, game.Phase); err != nil {
		return err
	}

	em.emit(game.ID, broadcast.EventHandStarted, map[string]interface{}{
		"handNumber": game.HandNumber,
		"phase":      game.Phase,
		"dealerSeat": game.DealerSeat,
	})

	if handler.IsBettingPhase(game.Phase) {
		firstActor := handler.FirstToAct(game)
		if _, err := s.betting.OpenRound(game, game.Phase, firstActor); err != nil {
			return err
		}
		if err := s.collectForcedBets(game, handler); err != nil {
			return err
		}
		creditMainPot(game, carry)
		if result := s.betting.CheckCompletion(game); result != nil && result.RoundComplete {
			return s.afterRoundComplete(ctx, game, handler, result, em)
		}
		return nil
	}

	// Variants without betting streets (guts) still collect antes
	if game.Ante > 0 {
		for _, seat := range game.SeatsFrom(game.DealerSeat) {
			p := game.Player(seat)
			if p == nil || !p.InHand() {
				continue
			}
			paid := p.Pay(game.Ante)
			creditMainPot(game, paid)
			if p.AllIn {
				game.HadAllIn = true
			}
		}
	}
	creditMainPot(game, carry)
	game.CurrentActor = handler.FirstToAct(game)
	return nil
}

// collectForcedBets posts antes, blinds, and the bring-in into the open
// betting round
func (s *Service) collectForcedBets(game *entities.Game, handler games.Handler) error {
	if game.Ante > 0 {
		for _, seat := range game.SeatsFrom(game.DealerSeat) {
			p := game.Player(seat)
			if p == nil || !p.InHand() {
				continue
			}
			if err := s.betting.PostForcedBet(game, seat, game.Ante, false); err != nil {
				return err
			}
		}
	}

	if game.BigBlind > 0 {
		smallBlindSeat := game.NextActiveSeat(game.DealerSeat)
		if len(game.ActivePlayers()) == 2 {
			// heads-up: the button posts the small blind
			smallBlindSeat = game.DealerSeat
		}
		bigBlindSeat := game.NextActiveSeat(smallBlindSeat)
		if game.SmallBlind > 0 {
			if err := s.betting.PostForcedBet(game, smallBlindSeat, game.SmallBlind, true); err != nil {
				return err
			}
		}
		if err := s.betting.PostForcedBet(game, bigBlindSeat, game.BigBlind, true); err != nil {
			return err
		}
	}

	if game.BringIn > 0 {
		// The opener determined by exposed cards posts the bring-in, then
		// action continues to their left
		bringInSeat := game.CurrentActor
		if err := s.betting.PostForcedBet(game, bringInSeat, game.BringIn, true); err != nil {
			return err
		}
		if round := game.CurrentRound(); round != nil {
			round.CurrentActor = game.NextActiveSeat(bringInSeat)
			game.CurrentActor = round.CurrentActor
		}
	}
	return nil
}

// creditMainPot adds chips to the hand's unawarded main pot, creating it on
// the first chip
func creditMainPot(game *entities.Game, amount int) {
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

// rebuildPots recomputes the side-pot structure from contributions. Chips
// carried over from an unawarded previous hand are not contributions, so the
// difference is credited back into the main pot.
func (s *Service) rebuildPots(game *entities.Game) {
	before := s.pots.Total(game)
	s.pots.BuildPots(game)
	if carried := before - s.pots.Total(game); carried > 0 {
		creditMainPot(game, carried)
	}
}

func canActCount(game *entities.Game) int {
	n := 0
	for _, p := range game.Players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// afterRoundComplete routes a closed betting round: fold-win, all-in
// fast-forward, or the next phase
func (s *Service) afterRoundComplete(ctx context.Context, game *entities.Game, handler games.Handler, result *betting.Result, em *emitter) error {
	if result.WonByFold {
		return s.resolveWonByFold(ctx, game, handler, result.WinnerSeat, em)
	}

	// Side pots are carved out when a street closes
	s.rebuildPots(game)

	if game.HadAllIn && canActCount(game) <= 1 {
		next, err := handler.GetNextPhase(game, game.Phase)
		if err != nil {
			return err
		}
		if next != games.PhaseShowdown {
			// No more betting is possible; schedule the runout for the
			// scheduler to fast-forward
			game.Phase = games.PhaseAllInDraw
			at := time.Now().Add(s.opts.AllInRevealDelay)
			game.DrawCompleteAt = &at
			game.CurrentActor = -1
			em.emit(game.ID, broadcast.EventPhaseChanged, map[string]interface{}{
				"phase": game.Phase,
			})
			return nil
		}
	}

	return s.advancePhase(ctx, game, handler, em)
}

// advancePhase moves the hand to the variant's next phase, dealing and
// opening a betting round as the phase requires
func (s *Service) advancePhase(ctx context.Context, game *entities.Game, handler games.Handler, em *emitter) error {
	previous := game.Phase
	next, err := handler.GetNextPhase(game, previous)
	if err != nil {
		return err
	}
	game.Phase = next
	em.emit(game.ID, broadcast.EventPhaseChanged, map[string]interface{}{
		"phase": next,
	})

	switch next {
	case games.PhaseShowdown:
		// A showdown reached without any betting street behind it (guts)
		// resolves in place
		auto := !handler.IsBettingPhase(previous) && handler.SupportsInlineShowdown()
		return s.enterShowdown(ctx, game, handler, auto, em)

	case games.PhaseComplete:
		return nil

	default:
		if err := handler.DealCards(game, next); err != nil {
			return err
		}
		em.emit(game.ID, broadcast.EventCardsDealt, map[string]interface{}{
			"phase": next,
		})

		if handler.IsBettingPhase(next) {
			firstActor := handler.FirstToAct(game)
			if _, err := s.betting.OpenRound(game, next, firstActor); err != nil {
				return err
			}
			if result := s.betting.CheckCompletion(game); result != nil && result.RoundComplete {
				return s.afterRoundComplete(ctx, game, handler, result, em)
			}
			return nil
		}

		// Non-betting street (a draw): hand the turn to its first actor, or
		// keep moving when nobody is owed one
		game.CurrentActor = handler.FirstToAct(game)
		if game.CurrentActor == -1 {
			return s.advancePhase(ctx, game, handler, em)
		}
		return nil
	}
}

// enterShowdown builds the showdown context, auto-reveals what the rules
// force, and resolves immediately when nothing is left to wait for
func (s *Service) enterShowdown(ctx context.Context, game *entities.Game, handler games.Handler, auto bool, em *emitter) error {
	game.Phase = games.PhaseShowdown
	game.CurrentActor = -1
	s.rebuildPots(game)

	sctx := s.showdown.InitializeShowdown(handler.ShowdownRules(), game)
	s.mu.Lock()
	s.showdowns[game.ID] = sctx
	s.mu.Unlock()

	strengths, err := handler.PerformShowdown(game)
	if err != nil {
		return err
	}

	if auto {
		for _, seat := range game.SeatsFrom(game.DealerSeat) {
			strength, ok := strengths[seat]
			if !ok {
				continue
			}
			if err := s.showdown.AutoRevealWinner(sctx, seat, strength); err != nil {
				return err
			}
			em.emit(game.ID, broadcast.EventReveal, map[string]interface{}{
				"seat": seat,
				"hand": strength.String(),
			})
		}
		return s.resolveShowdown(ctx, game, handler, sctx, em)
	}

	if game.HadAllIn {
		_, autoSeats := s.showdown.ProcessAllInShowdown(sctx, game, handler.GetDealingConfiguration().CommunityCards)
		for _, seat := range autoSeats {
			strength, ok := strengths[seat]
			if !ok {
				continue
			}
			if err := s.showdown.AutoRevealWinner(sctx, seat, strength); err != nil {
				return err
			}
			em.emit(game.ID, broadcast.EventReveal, map[string]interface{}{
				"seat": seat,
				"hand": strength.String(),
			})
		}
	}

	if sctx.Complete {
		return s.resolveShowdown(ctx, game, handler, sctx, em)
	}
	return nil
}

// resolveShowdown pays the pots out against the revealed hands and closes
// the hand. When nobody showed a winning hand (a lone guts stayer beaten by
// the deck) the pots stay unawarded and carry to the next hand.
func (s *Service) resolveShowdown(ctx context.Context, game *entities.Game, handler games.Handler, sctx *showdown.Context, em *emitter) error {
	winners := s.showdown.DetermineWinners(sctx)
	if len(winners) == 0 {
		return s.finishHand(ctx, game, handler, sctx, nil, false, em)
	}

	awards, err := s.showdown.DetermineWinnersWithPots(sctx, game)
	if err != nil {
		return err
	}
	for _, award := range awards {
		em.emit(game.ID, broadcast.EventPotAwarded, map[string]interface{}{
			"pot":     award.Pot.Label(),
			"amount":  award.Pot.Amount,
			"winners": award.Winners,
		})
	}
	return s.finishHand(ctx, game, handler, sctx, awards, false, em)
}

// resolveWonByFold hands every open pot to the last player standing
func (s *Service) resolveWonByFold(ctx context.Context, game *entities.Game, handler games.Handler, winnerSeat int, em *emitter) error {
	s.rebuildPots(game)

	var awards []showdown.PotAward
	for _, pot := range game.Pots {
		if pot.Awarded {
			continue
		}
		if err := s.pots.AwardPot(game, pot, []int{winnerSeat}); err != nil {
			return err
		}
		awards = append(awards, showdown.PotAward{Pot: pot, Winners: []int{winnerSeat}})
		em.emit(game.ID, broadcast.EventPotAwarded, map[string]interface{}{
			"pot":     pot.Label(),
			"amount":  pot.Amount,
			"winners": []int{winnerSeat},
		})
	}
	return s.finishHand(ctx, game, handler, nil, awards, true, em)
}

// finishHand emits the hand summary, runs variant cleanup, and schedules the
// next hand
func (s *Service) finishHand(ctx context.Context, game *entities.Game, handler games.Handler, sctx *showdown.Context,
	awards []showdown.PotAward, wonByFold bool, em *emitter) error {

	total := 0
	amountsWon := make(map[int]int)
	splitWinners := make(map[int]bool)
	var winnerSeats []int
	for _, award := range awards {
		total += award.Pot.Amount
		for seat, amount := range award.Pot.Winners {
			if _, seen := amountsWon[seat]; !seen {
				winnerSeats = append(winnerSeats, seat)
			}
			amountsWon[seat] += amount
			if len(award.Winners) > 1 {
				splitWinners[seat] = true
			}
		}
	}

	summary := s.buildHandSummary(game, sctx, amountsWon, splitWinners, total, wonByFold)
	if recorded, err := s.history.RecordHand(ctx, summary); err != nil {
		s.logger.Warn("Failed to record hand %s/%d: %v", game.ID, game.HandNumber, err)
	} else if !recorded {
		s.logger.Debug("Hand %s/%d already recorded", game.ID, game.HandNumber)
	}

	if err := handler.ProcessPostShowdown(game); err != nil {
		return err
	}

	game.Phase = games.PhaseComplete
	game.CurrentActor = -1
	nextHand := time.Now().Add(s.opts.BetweenHandsDelay)
	game.NextHandAt = &nextHand

	payload := map[string]interface{}{
		"handNumber": game.HandNumber,
		"potTotal":   total,
	}
	if len(winnerSeats) > 0 && (sctx != nil || wonByFold) {
		payload["announcement"] = s.showdown.BuildWinnerAnnouncement(sctx, game, winnerSeats, total, wonByFold)
	}
	if len(winnerSeats) == 0 {
		payload["carried"] = true
	}
	em.emit(game.ID, broadcast.EventHandComplete, payload)

	s.dropShowdownContext(game.ID)
	return nil
}

// buildHandSummary classifies every participant's result for the archive
func (s *Service) buildHandSummary(game *entities.Game, sctx *showdown.Context,
	amountsWon map[int]int, splitWinners map[int]bool, total int, wonByFold bool) *entities.HandSummary {

	var results []*entities.PlayerHandResult
	for _, p := range game.Players {
		dealtIn := len(game.PlayerCards(p.Seat)) > 0 || p.TotalContributed > 0
		if !dealtIn {
			continue
		}

		result := &entities.PlayerHandResult{
			PlayerID: p.PlayerID,
			Seat:     p.Seat,
		}
		switch {
		case amountsWon[p.Seat] > 0:
			result.Outcome = entities.OutcomeWon
			if splitWinners[p.Seat] {
				result.Outcome = entities.OutcomeSplitPotWon
			}
			result.AmountWon = amountsWon[p.Seat]
		case p.Folded:
			result.Outcome = entities.OutcomeFolded
			result.FoldStreet = foldStreet(game, p.Seat)
		default:
			result.Outcome = entities.OutcomeLost
		}

		if sctx != nil {
			if state, ok := sctx.Players()[p.Seat]; ok && state.Hand != nil &&
				(state.Status == showdown.StatusShown || state.Status == showdown.StatusForcedReveal) {
				result.HandShown = state.Hand.String()
			}
		}
		results = append(results, result)
	}

	return &entities.HandSummary{
		GameID:      game.ID,
		Variant:     game.Variant,
		HandNumber:  game.HandNumber,
		PotTotal:    total,
		WonByFold:   wonByFold,
		Results:     results,
		CompletedAt: time.Now(),
	}
}

// foldStreet returns the street on which the seat folded, empty when the
// fold happened outside a betting round (a guts drop)
func foldStreet(game *entities.Game, seat int) string {
	for _, round := range game.Rounds {
		for _, action := range round.Actions {
			if action.Seat == seat && action.Type == entities.ActionFold {
				return round.Street
			}
		}
	}
	return ""
}
