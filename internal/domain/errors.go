package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid import input")
	ErrMatchNotFound       = errors.New("match not found at vendor")
	ErrVendorUnavailable   = errors.New("vendor api unavailable")
	ErrGameAlreadyImported = errors.New("game already imported")
	ErrGameNotFound        = errors.New("game not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInternalError       = errors.New("internal server error")
)

// InvalidInputError describes vendor data the importer refuses to process.
// Participant fields are zero when the problem is not tied to a participant.
type InvalidInputError struct {
	MatchID       string
	ParticipantID int
	AccountID     string
	TeamPosition  string
	Role          string
	Lane          string
	Reason        string
}

func (e *InvalidInputError) Error() string {
	if e.ParticipantID == 0 {
		return fmt.Sprintf("match %s: %s", e.MatchID, e.Reason)
	}
	return fmt.Sprintf("match %s participant %d (%s): %s [teamPosition=%q role=%q lane=%q]",
		e.MatchID, e.ParticipantID, e.AccountID, e.Reason, e.TeamPosition, e.Role, e.Lane)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// Import stages, used to tag ImportError
const (
	StageFetchSummary  = "fetch-summary"
	StageFetchTimeline = "fetch-timeline"
	StageResolve       = "resolve"
	StageClassify      = "classify"
	StagePersist       = "persist"
)

// ImportError wraps any fatal failure of a single match import
type ImportError struct {
	MatchID string
	Stage   string
	Err     error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing match %s (%s): %v", e.MatchID, e.Stage, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrMatchNotFound) || errors.Is(err, ErrGameNotFound) || errors.Is(err, ErrAccountNotFound)
}
