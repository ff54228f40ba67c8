package table

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fadedpez/blondie/internal/logging"
	"github.com/fadedpez/blondie/internal/types"
	"github.com/fadedpez/blondie/pkg/broadcast"
	"github.com/fadedpez/blondie/pkg/entities"
	"github.com/fadedpez/blondie/pkg/games"
	gamerepo "github.com/fadedpez/blondie/pkg/repositories/game"
	historyrepo "github.com/fadedpez/blondie/pkg/repositories/history"
	"github.com/fadedpez/blondie/pkg/services/betting"
	potsvc "github.com/fadedpez/blondie/pkg/services/pot"
	"github.com/fadedpez/blondie/pkg/services/showdown"
)

// Options tunes the table lifecycle timers
type Options struct {
	// BetweenHandsDelay is how long after a hand completes before the next
	// hand starts
	BetweenHandsDelay time.Duration

	// IdleThreshold marks a game abandoned after this much inactivity
	IdleThreshold time.Duration

	// ChipCheckPause is how long a game waits when a chip-coverage shortfall
	// blocks the next hand
	ChipCheckPause time.Duration

	// AllInRevealDelay is the pause before an all-in board runout so clients
	// can present the reveal
	AllInRevealDelay time.Duration

	// TurnTimeout is how long the current actor of a betting round may stall
	// before the scheduler acts for them. Zero disables timeouts.
	TurnTimeout time.Duration
}

// DefaultOptions returns sensible lifecycle timers
func DefaultOptions() Options {
	return Options{
		BetweenHandsDelay: 10 * time.Second,
		IdleThreshold:     30 * time.Minute,
		ChipCheckPause:    60 * time.Second,
		AllInRevealDelay:  3 * time.Second,
		TurnTimeout:       60 * time.Second,
	}
}

// CreateGameParams are the stakes and variant for a new table
type CreateGameParams struct {
	Variant    string
	Ante       int
	SmallBlind int
	BigBlind   int
	BringIn    int
	MinBet     int
	MaxBet     int
}

// Service orchestrates the full hand lifecycle for every table: the
// per-action pipeline (load snapshot, validate, mutate, persist with the
// optimistic version, broadcast) plus hand start, phase advance, showdown
// routing, and history emission. Access to one game is serialized by a
// per-game lock; the repository's version check guards against writers
// outside this process. Different games run fully in parallel.
type Service struct {
	repo     gamerepo.Repository
	history  historyrepo.Repository
	registry *games.Registry
	betting  *betting.Service
	pots     *potsvc.Manager
	showdown *showdown.Service
	events   broadcast.Broadcaster
	logger   *logging.Logger
	opts     Options

	mu        sync.Mutex
	gameLocks map[string]*sync.Mutex

	// showdowns holds the ephemeral showdown context per game while its
	// hand is in the Showdown phase; rebuilt from the aggregate if lost
	showdowns map[string]*showdown.Context
}

// NewService wires the table orchestrator
func NewService(repo gamerepo.Repository, history historyrepo.Repository, registry *games.Registry,
	events broadcast.Broadcaster, logger *logging.Logger, opts Options) *Service {
	pots := potsvc.NewManager()
	return &Service{
		repo:      repo,
		history:   history,
		registry:  registry,
		betting:   betting.NewService(),
		pots:      pots,
		showdown:  showdown.NewService(pots),
		events:    events,
		logger:    logger,
		opts:      opts,
		gameLocks: make(map[string]*sync.Mutex),
		showdowns: make(map[string]*showdown.Context),
	}
}

func (s *Service) lockFor(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, exists := s.gameLocks[gameID]
	if !exists {
		lock = &sync.Mutex{}
		s.gameLocks[gameID] = lock
	}
	return lock
}

// mutation is one pass of the per-action pipeline. Events appended to the
// emitter are published only after the save succeeds.
type emitter struct {
	pending []*broadcast.Event
}

func (e *emitter) emit(gameID string, eventType broadcast.EventType, payload map[string]interface{}) {
	e.pending = append(e.pending, broadcast.NewEvent(gameID, eventType, payload))
}

// withGame runs fn against a fresh snapshot under the game's lock, then
// persists and broadcasts. An error from fn abandons the snapshot: nothing
// is written and nothing is published.
func (s *Service) withGame(ctx context.Context, gameID string, fn func(game *entities.Game, em *emitter) error) (*entities.Game, error) {
	return s.mutateGame(ctx, gameID, true, fn)
}

// errUnchanged is returned by a mutation fn to abandon the snapshot without
// error: nothing is written and nothing is published. Used by scheduler
// passes that find a game with nothing due.
var errUnchanged = types.NewGameError(types.ErrInvalidAction, "no state change")

// mutateGame is the pipeline behind withGame. Scheduler passes run with
// touch=false so that maintenance writes do not reset the idle clock.
func (s *Service) mutateGame(ctx context.Context, gameID string, touch bool, fn func(game *entities.Game, em *emitter) error) (*entities.Game, error) {
	lock := s.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := s.repo.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	em := &emitter{}
	if err := fn(game, em); err != nil {
		if err == errUnchanged {
			return game, nil
		}
		return nil, err
	}

	now := time.Now()
	if touch {
		game.LastActivityAt = now
	}
	game.UpdatedAt = now
	if err := s.repo.Save(ctx, game); err != nil {
		return nil, err
	}

	for _, event := range em.pending {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish %s event for game %s: %v", event.Type, gameID, err)
		}
	}
	return game, nil
}

// handlerFor resolves the game's variant handler
func (s *Service) handlerFor(game *entities.Game) (games.Handler, error) {
	return s.registry.Get(game.Variant)
}

// CreateGame creates a table for the given variant and stakes. An unknown
// variant code fails here, at configuration time.
func (s *Service) CreateGame(ctx context.Context, params CreateGameParams) (*entities.Game, error) {
	if _, err := s.registry.Get(params.Variant); err != nil {
		return nil, err
	}

	now := time.Now()
	game := &entities.Game{
		ID:             uuid.New().String(),
		Variant:        params.Variant,
		Status:         entities.StatusWaitingForPlayers,
		Ante:           params.Ante,
		SmallBlind:     params.SmallBlind,
		BigBlind:       params.BigBlind,
		BringIn:        params.BringIn,
		MinBet:         params.MinBet,
		MaxBet:         params.MaxBet,
		CurrentActor:   -1,
		LastAggressor:  -1,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("Created %s game %s", game.Variant, game.ID)
	return game, nil
}

// Join seats a player at the table. Joining mid-hand is allowed; the player
// is dealt in starting with the next hand.
func (s *Service) Join(ctx context.Context, gameID, playerID, name string, buyIn int) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		if game.Status == entities.StatusCompleted || game.Status == entities.StatusCancelled {
			return types.NewGameError(types.ErrGameAlreadyEnded, "the game has ended")
		}
		if game.PlayerByID(playerID) != nil {
			return types.NewGameError(types.ErrAlreadyJoined, fmt.Sprintf("Player %s is already seated", playerID))
		}
		if len(game.Players) >= handler.MaxPlayers() {
			return types.NewGameError(types.ErrTooManyPlayers,
				fmt.Sprintf("%s seats at most %d players", handler.Name(), handler.MaxPlayers()))
		}
		if buyIn <= 0 {
			return types.NewGameError(types.ErrInsufficientChips, "buy-in must be positive")
		}

		seat := nextFreeSeat(game)
		player := entities.NewGamePlayer(playerID, name, seat, buyIn)
		if game.Status == entities.StatusInProgress {
			// Out of the current hand; dealt in at the next one
			player.Folded = true
		}
		game.Players = append(game.Players, player)

		em.emit(game.ID, broadcast.EventPlayerJoined, map[string]interface{}{
			"playerId": playerID,
			"seat":     seat,
		})
		return nil
	})
}

func nextFreeSeat(game *entities.Game) int {
	taken := make(map[int]bool, len(game.Players))
	for _, p := range game.Players {
		taken[p.Seat] = true
	}
	for seat := 0; ; seat++ {
		if !taken[seat] {
			return seat
		}
	}
}

// Leave removes a player from the table. A player leaving mid-hand is folded
// first; chips already contributed stay in the pot.
func (s *Service) Leave(ctx context.Context, gameID, playerID string) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		player := game.PlayerByID(playerID)
		if player == nil {
			return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("Player %s is not seated", playerID))
		}

		if game.Status == entities.StatusInProgress && player.InHand() {
			handler, err := s.handlerFor(game)
			if err != nil {
				return err
			}
			player.Folded = true
			if game.CurrentActor == player.Seat {
				if result := s.betting.CheckCompletion(game); result != nil && result.RoundComplete {
					if err := s.afterRoundComplete(ctx, game, handler, result, em); err != nil {
						return err
					}
				} else if round := game.CurrentRound(); round != nil {
					round.CurrentActor = game.NextActiveSeat(player.Seat)
					game.CurrentActor = round.CurrentActor
				} else if game.Phase != games.PhaseShowdown && game.Phase != games.PhaseComplete {
					// A draw or declaration street: turn order lives with the
					// variant, not a betting round
					game.CurrentActor = handler.FirstToAct(game)
					if game.CurrentActor == -1 {
						if err := s.advancePhase(ctx, game, handler, em); err != nil {
							return err
						}
					}
				}
			} else if game.UnfoldedCount() == 1 {
				if result := s.betting.CheckCompletion(game); result != nil && result.WonByFold {
					if err := s.afterRoundComplete(ctx, game, handler, result, em); err != nil {
						return err
					}
				}
			}
		}
		player.Left = true

		em.emit(game.ID, broadcast.EventPlayerLeft, map[string]interface{}{
			"playerId": playerID,
			"seat":     player.Seat,
		})
		return nil
	})
}

// StartGame begins continuous play: it deals the first hand
func (s *Service) StartGame(ctx context.Context, gameID string) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		if game.Status != entities.StatusWaitingForPlayers && game.Status != entities.StatusBetweenHands {
			return types.NewGameError(types.ErrGameInProgress, "the game has already started")
		}
		if len(game.EligiblePlayers()) < handler.MinPlayers() {
			return types.NewGameError(types.ErrNotEnoughPlayers,
				fmt.Sprintf("%s needs at least %d players", handler.Name(), handler.MinPlayers()))
		}
		return s.startHand(ctx, game, handler, em)
	})
}

// ProcessAction applies one voluntary betting action from a player
func (s *Service) ProcessAction(ctx context.Context, gameID, playerID string, action entities.ActionType, amount int) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		player, err := s.actingPlayer(game, playerID)
		if err != nil {
			return err
		}

		result, err := s.betting.ProcessAction(game, player.Seat, action, amount)
		if err != nil {
			return err
		}

		em.emit(game.ID, broadcast.EventActionProcessed, map[string]interface{}{
			"playerId": playerID,
			"seat":     player.Seat,
			"action":   string(action),
			"amount":   amount,
		})

		if result.RoundComplete {
			return s.afterRoundComplete(ctx, game, handler, result, em)
		}
		return nil
	})
}

// ProcessDraw applies a draw-street discard/replace for variants that have one
func (s *Service) ProcessDraw(ctx context.Context, gameID, playerID string, discardIndices []int) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		drawer, ok := handler.(games.Drawer)
		if !ok {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("%s has no draw street", handler.Name()))
		}
		player, err := s.actingPlayer(game, playerID)
		if err != nil {
			return err
		}

		if err := drawer.ProcessDraw(game, player.Seat, discardIndices); err != nil {
			return err
		}

		em.emit(game.ID, broadcast.EventCardsDealt, map[string]interface{}{
			"playerId":  playerID,
			"seat":      player.Seat,
			"discarded": len(discardIndices),
		})

		if game.CurrentActor == -1 {
			// Everyone has drawn; move to the next street
			return s.advancePhase(ctx, game, handler, em)
		}
		return nil
	})
}

// ProcessDropOrStay applies a guts-style declaration
func (s *Service) ProcessDropOrStay(ctx context.Context, gameID, playerID string, stay bool) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		declarer, ok := handler.(games.DropOrStayer)
		if !ok {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("%s has no drop-or-stay phase", handler.Name()))
		}
		player, err := s.actingPlayer(game, playerID)
		if err != nil {
			return err
		}

		if err := declarer.ProcessDropOrStay(game, player.Seat, stay); err != nil {
			return err
		}

		em.emit(game.ID, broadcast.EventActionProcessed, map[string]interface{}{
			"playerId": playerID,
			"seat":     player.Seat,
			"action":   declarationName(stay),
		})

		if game.CurrentActor == -1 {
			return s.advancePhase(ctx, game, handler, em)
		}
		return nil
	})
}

func declarationName(stay bool) string {
	if stay {
		return "STAY"
	}
	return "DROP"
}

// ProcessReveal shows a player's hand at showdown
func (s *Service) ProcessReveal(ctx context.Context, gameID, playerID string) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		player := game.PlayerByID(playerID)
		if player == nil {
			return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("Player %s is not seated", playerID))
		}
		sctx, err := s.showdownContext(game, handler)
		if err != nil {
			return err
		}

		strengths, err := handler.PerformShowdown(game)
		if err != nil {
			return err
		}
		strength, ok := strengths[player.Seat]
		if !ok {
			return types.NewGameError(types.ErrPlayerFolded, "no hand to reveal")
		}

		if err := s.showdown.ProcessReveal(sctx, player.Seat, strength); err != nil {
			return err
		}

		em.emit(game.ID, broadcast.EventReveal, map[string]interface{}{
			"playerId": playerID,
			"seat":     player.Seat,
			"hand":     strength.String(),
		})

		if sctx.Complete {
			return s.resolveShowdown(ctx, game, handler, sctx, em)
		}
		return nil
	})
}

// ProcessMuck folds a player's hand face down at showdown
func (s *Service) ProcessMuck(ctx context.Context, gameID, playerID string) (*entities.Game, error) {
	return s.withGame(ctx, gameID, func(game *entities.Game, em *emitter) error {
		handler, err := s.handlerFor(game)
		if err != nil {
			return err
		}
		player := game.PlayerByID(playerID)
		if player == nil {
			return types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("Player %s is not seated", playerID))
		}
		sctx, err := s.showdownContext(game, handler)
		if err != nil {
			return err
		}

		if err := s.showdown.ProcessMuck(sctx, player.Seat); err != nil {
			return err
		}

		em.emit(game.ID, broadcast.EventReveal, map[string]interface{}{
			"playerId": playerID,
			"seat":     player.Seat,
			"mucked":   true,
		})

		if sctx.Complete {
			return s.resolveShowdown(ctx, game, handler, sctx, em)
		}
		return nil
	})
}

// actingPlayer resolves a seated player who may take actions in the current
// hand
func (s *Service) actingPlayer(game *entities.Game, playerID string) (*entities.GamePlayer, error) {
	if game.Status != entities.StatusInProgress {
		return nil, types.NewGameError(types.ErrWrongPhase, "no hand is in progress")
	}
	player := game.PlayerByID(playerID)
	if player == nil {
		return nil, types.NewGameError(types.ErrPlayerNotFound, fmt.Sprintf("Player %s is not seated", playerID))
	}
	return player, nil
}

// showdownContext returns the live showdown context for the game, rebuilding
// it from the aggregate if this process lost it
func (s *Service) showdownContext(game *entities.Game, handler games.Handler) (*showdown.Context, error) {
	if game.Phase != games.PhaseShowdown {
		return nil, types.NewGameError(types.ErrWrongPhase, "the hand is not at showdown")
	}
	s.mu.Lock()
	sctx, exists := s.showdowns[game.ID]
	s.mu.Unlock()
	if exists && sctx.HandNumber == game.HandNumber {
		return sctx, nil
	}

	sctx = s.showdown.InitializeShowdown(handler.ShowdownRules(), game)
	s.mu.Lock()
	s.showdowns[game.ID] = sctx
	s.mu.Unlock()
	return sctx, nil
}

func (s *Service) dropShowdownContext(gameID string) {
	s.mu.Lock()
	delete(s.showdowns, gameID)
	s.mu.Unlock()
}
