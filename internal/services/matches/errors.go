package matches

import (
	"errors"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/repos/matches"
	"github.com/fastprodman/golfwager/internal/services/ledger"
)

var (
	ErrNotJoinable        = errors.New("match is not joinable")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrMatchFull          = errors.New("match is full")
	ErrNotParticipant     = errors.New("not a participant")
	ErrInvalidHole        = errors.New("invalid hole")
	ErrMatchNotInProgress = errors.New("match is not in progress")
	ErrInvalidStrokes     = errors.New("invalid strokes")
	ErrScoreConfirmed     = errors.New("score already confirmed")
	ErrScoreMissing       = errors.New("no score submitted")
	ErrHoleCompleted      = errors.New("hole already completed")
)

// Re-exported so callers need a single import to classify failures.
var (
	ErrMatchNotFound     = matches.ErrMatchNotFound
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
	ErrUserNotFound      = ledger.ErrUserNotFound
	ErrInvalidAmount     = domain.ErrInvalidAmount
	ErrInvalidCourse     = domain.ErrInvalidCourse
	ErrInvalidFormat     = domain.ErrInvalidFormat
	ErrInvalidGameType   = domain.ErrInvalidGameType
)
