package table

import (
	"context"
	"time"

	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/games"
)

// ListActiveGameIDs returns every game the scheduler should visit
func (s *Service) ListActiveGameIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListActiveIDs(ctx)
}

// MaintainGame is one scheduler visit to one game: abandonment, all-in
// fast-forward, turn timeout, chip-check resume, and next-hand start, in that
// order. A game
// with nothing due is left untouched. Callers run each game independently so
// one failure never blocks the rest of the pass.
func (s *Service) MaintainGame(ctx context.Context, gameID string) error {
	_, err := s.mutateGame(ctx, gameID, false, func(game *entities.Game, em *emitter) error {
		if game.Status != entities.StatusInProgress && game.Status != entities.StatusBetweenHands {
			return errUnchanged
		}
		now := time.Now()

		if s.isAbandoned(game, now) {
			game.Status = entities.StatusCompleted
			game.NextHandAt = nil
			game.DrawCompleteAt = nil
			em.emit(game.ID, broadcast.EventGameCompleted, map[string]interface{}{
				"reason": "abandoned",
			})
			s.logger.Info("Game %s marked abandoned after %s idle", game.ID, now.Sub(game.LastActivityAt))
			return nil
		}

		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}

		if game.Status == entities.StatusInProgress && game.Phase == games.PhaseAllInDraw &&
			game.DrawCompleteAt != nil && !now.Before(*game.DrawCompleteAt) {
			game.DrawCompleteAt = nil
			if err := handler.ProcessDrawComplete(game); err != nil {
				return err
			}
			em.emit(game.ID, broadcast.EventCardsDealt, map[string]interface{}{
				"phase": game.Phase,
			})
			return s.advancePhase(ctx, game, handler, em)
		}

		if game.Status == entities.StatusInProgress && s.opts.TurnTimeout > 0 &&
			now.Sub(game.LastActivityAt) > s.opts.TurnTimeout {
			if round := game.CurrentRound(); round != nil && !round.Complete && round.CurrentActor >= 0 {
				return s.timeOutActor(ctx, game, handler, em)
			}
		}

		if game.PausedForChipCheck && game.ResumeAt != nil && !now.Before(*game.ResumeAt) {
			game.PausedForChipCheck = false
			game.ResumeAt = nil
			return s.tryNextHand(ctx, game, handler, true, em)
		}

		if game.Status == entities.StatusInProgress && game.Phase == games.PhaseComplete &&
			game.NextHandAt != nil && !now.Before(*game.NextHandAt) {
			game.NextHandAt = nil
			return s.tryNextHand(ctx, game, handler, false, em)
		}

		return errUnchanged
	})
	return err
}

// isAbandoned reports whether the table has been without any chip-bearing
// player able to play for longer than the idle threshold. A funded table
// that merely sits idle is left alone.
func (s *Service) isAbandoned(game *entities.Game, now time.Time) bool {
	if now.Sub(game.LastActivityAt) <= s.opts.IdleThreshold {
		return false
	}
	for _, p := range game.EligiblePlayers() {
		if p.Chips > 0 {
			return false
		}
	}
	return true
}

// tryNextHand runs the between-hands gate: player count, chip-coverage check
// per the variant's configuration, then the deal. afterPause is set when a
// chip-check pause has already elapsed; short stacks are sat out instead of
// pausing again.
func (s *Service) tryNextHand(ctx context.Context, game *entities.Game, handler games.Handler, afterPause bool, em *emitter) error {
	if s.seatedCount(game) < 2 {
		return s.pauseGame(game, "not enough players", em)
	}

	check := handler.GetChipCheckConfiguration()
	if check.Enabled {
		required := game.Ante + game.BigBlind + game.BringIn
		short := s.shortStacks(game, required)
		if len(short) > 0 {
			if check.Action == games.ChipCheckSitOut {
				for _, p := range short {
					p.SittingOut = true
					s.logger.Info("Game %s: sitting out %s (stack %d below %d)", game.ID, p.Name, p.Chips, required)
				}
			}
			// AUTO_FOLD leaves short stacks seated; the deal folds them

			if s.coveredCount(game, required) < handler.MinPlayers() {
				if afterPause {
					return s.pauseGame(game, "not enough players with chips", em)
				}
				// Too few covered stacks to deal; hold the table for the
				// configured pause before parking it
				game.PausedForChipCheck = true
				resume := time.Now().Add(s.opts.ChipCheckPause)
				game.ResumeAt = &resume
				em.emit(game.ID, broadcast.EventGamePaused, map[string]interface{}{
					"reason":    "chip check",
					"shortfall": len(short),
				})
				s.logger.Info("Game %s paused for chip check: %d short stacks", game.ID, len(short))
				return nil
			}
		}
	}

	if len(game.EligiblePlayers()) < handler.MinPlayers() {
		return s.pauseGame(game, "not enough players with chips", em)
	}
	return s.startHand(ctx, game, handler, em)
}

// seatedCount is the number of players who have not left the table
func (s *Service) seatedCount(game *entities.Game) int {
	n := 0
	for _, p := range game.Players {
		if !p.Left {
			n++
		}
	}
	return n
}

// coveredCount counts eligible players who can cover the hand's forced bets
func (s *Service) coveredCount(game *entities.Game, required int) int {
	n := 0
	for _, p := range game.EligiblePlayers() {
		if required <= 0 || p.Chips >= required {
			n++
		}
	}
	return n
}

// shortStacks returns eligible players who cannot cover the hand's forced bets
func (s *Service) shortStacks(game *entities.Game, required int) []*entities.GamePlayer {
	var short []*entities.GamePlayer
	if required <= 0 {
		return short
	}
	for _, p := range game.EligiblePlayers() {
		if p.Chips < required {
			short = append(short, p)
		}
	}
	return short
}

// timeOutActor acts for the current actor of a stalled betting round: check
// when their bet matches the table, fold otherwise. The action record carries
// the timeout flag so clients and history can tell it apart from a voluntary
// action.
func (s *Service) timeOutActor(ctx context.Context, game *entities.Game, handler games.Handler, em *emitter) error {
	round := game.CurrentRound()
	seat := round.CurrentActor
	player := game.Player(seat)
	if player == nil {
		return errUnchanged
	}

	action := entities.ActionFold
	if player.CurrentBet == round.CurrentBet {
		action = entities.ActionCheck
	}
	result, err := s.betting.ProcessAction(game, seat, action, 0)
	if err != nil {
		return err
	}
	if n := len(round.Actions); n > 0 {
		round.Actions[n-1].Timeout = true
	}
	// the forced action restarts the turn clock for the next actor
	game.LastActivityAt = time.Now()

	em.emit(game.ID, broadcast.EventActionProcessed, map[string]interface{}{
		"playerId": player.PlayerID,
		"seat":     seat,
		"action":   string(action),
		"amount":   0,
		"timeout":  true,
	})
	s.logger.Info("Game %s: seat %d timed out, forced %s", game.ID, seat, action)

	if result.RoundComplete {
		return s.afterRoundComplete(ctx, game, handler, result, em)
	}
	return nil
}

// pauseGame parks the table between hands without erroring
func (s *Service) pauseGame(game *entities.Game, reason string, em *emitter) error {
	game.Status = entities.StatusBetweenHands
	game.NextHandAt = nil
	em.emit(game.ID, broadcast.EventGamePaused, map[string]interface{}{
		"reason": reason,
	})
	s.logger.Info("Game %s paused: %s", game.ID, reason)
	return nil
}
