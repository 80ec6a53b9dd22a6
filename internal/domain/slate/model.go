package slate

import (
	"fmt"
	"time"
)

const (
	StatusOpen   = "OPEN"
	StatusLocked = "LOCKED"
	StatusScored = "SCORED"
)

// Slate is a bounded set of fixtures users submit one lineup against.
// Status transitions are monotonic: OPEN -> LOCKED -> SCORED.
type Slate struct {
	ID         string
	Name       string
	Date       string
	LockAt     time.Time
	Status     string
	FixtureIDs []string
}

// CanTransition reports whether moving to the given status is a legal
// forward step from the current one.
func (s Slate) CanTransition(next string) bool {
	switch s.Status {
	case StatusOpen:
		return next == StatusLocked
	case StatusLocked:
		return next == StatusScored
	default:
		return false
	}
}

func (s Slate) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("slate id is required")
	}
	if s.Status != StatusOpen && s.Status != StatusLocked && s.Status != StatusScored {
		return fmt.Errorf("invalid slate status: %s", s.Status)
	}
	if s.LockAt.IsZero() {
		return fmt.Errorf("slate lock time is required")
	}

	return nil
}
