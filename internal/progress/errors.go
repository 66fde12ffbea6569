package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRoadmap is returned by operations that need a live roadmap.
	ErrNoRoadmap = errors.New("no roadmap generated yet")

	// ErrGenerationUnavailable is returned when no generation provider is
	// configured.
	ErrGenerationUnavailable = errors.New("generation is not configured: set GEMINI_API_KEY")
)

// ErrItemOutOfRange reports a toggle addressing a stage or item that does
// not exist. Indices are zero-based.
type ErrItemOutOfRange struct {
	Stage, Item int
}

func (e *ErrItemOutOfRange) Error() string {
	return fmt.Sprintf("no item %d in stage %d", e.Item, e.Stage)
}

// ErrUnknownAchievement reports an unlock for an id outside the catalog.
type ErrUnknownAchievement struct {
	ID AchievementID
}

func (e *ErrUnknownAchievement) Error() string {
	return fmt.Sprintf("unknown achievement %q", e.ID)
}

// SaveError is returned when a transition was applied in memory but could
// not be persisted. The in-memory state keeps the transition.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("progress could not be saved: %v", e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
