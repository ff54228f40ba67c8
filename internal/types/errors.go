package types

import "fmt"

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Not-found errors
	ErrGameNotFound   ErrorCode = "GAME_NOT_FOUND"
	ErrPlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"

	// Validation errors: the request was legal to make but illegal for the
	// current game state. State is never mutated when one of these is returned.
	ErrNotPlayerTurn     ErrorCode = "NOT_PLAYER_TURN"
	ErrInvalidAction     ErrorCode = "INVALID_ACTION"
	ErrWrongPhase        ErrorCode = "WRONG_PHASE"
	ErrAmountOutOfRange  ErrorCode = "AMOUNT_OUT_OF_RANGE"
	ErrInvalidCardIndex  ErrorCode = "INVALID_CARD_INDEX"
	ErrTooManyDiscards   ErrorCode = "TOO_MANY_DISCARDS"
	ErrPlayerFolded      ErrorCode = "PLAYER_FOLDED"
	ErrPlayerAllIn       ErrorCode = "PLAYER_ALL_IN"
	ErrRoundComplete     ErrorCode = "ROUND_COMPLETE"
	ErrMuckNotAllowed    ErrorCode = "MUCK_NOT_ALLOWED"
	ErrRevealOutOfOrder  ErrorCode = "REVEAL_OUT_OF_ORDER"
	ErrNotEnoughPlayers  ErrorCode = "NOT_ENOUGH_PLAYERS"
	ErrTooManyPlayers    ErrorCode = "TOO_MANY_PLAYERS"
	ErrAlreadyJoined     ErrorCode = "ALREADY_JOINED"
	ErrGameInProgress    ErrorCode = "GAME_IN_PROGRESS"
	ErrGameAlreadyEnded  ErrorCode = "GAME_ALREADY_ENDED"
	ErrInsufficientChips ErrorCode = "INSUFFICIENT_CHIPS"

	// Conflict errors: safe for the caller to retry
	ErrVersionConflict ErrorCode = "VERSION_CONFLICT"
	ErrDuplicateGame   ErrorCode = "DUPLICATE_GAME"
	ErrAlreadyRecorded ErrorCode = "ALREADY_RECORDED"

	// Configuration errors: fatal at game-creation time, never at runtime
	ErrUnknownVariant ErrorCode = "UNKNOWN_VARIANT"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if err == nil {
		return false
	}
	if ok := As(err, &gameErr); !ok {
		return false
	}
	return gameErr.Code == code
}

// As is a helper function to safely type assert an error to a GameError
func As(err error, target **GameError) bool {
	if target == nil {
		return false
	}
	if gameErr, ok := err.(*GameError); ok {
		*target = gameErr
		return true
	}
	return false
}

// IsRetryable reports whether the caller may safely retry the operation
// that produced err. Only conflict errors qualify.
func IsRetryable(err error) bool {
	var gameErr *GameError
	if !As(err, &gameErr) {
		return false
	}
	switch gameErr.Code {
	case ErrVersionConflict, ErrAlreadyRecorded:
		return true
	}
	return false
}
