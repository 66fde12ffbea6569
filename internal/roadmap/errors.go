package roadmap

import (
	"fmt"
	"strings"
)

// ValidationError reports missing user input. It is never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// MalformedRoadmapError reports generation output that lacks the fields a
// roadmap needs. Missing lists the absent top-level fields; Err is set
// when the document could not be decoded at all.
type MalformedRoadmapError struct {
	Missing []string
	Err     error
}

func (e *MalformedRoadmapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed roadmap: %v", e.Err)
	}
	return fmt.Sprintf("malformed roadmap: missing %s", strings.Join(e.Missing, ", "))
}

func (e *MalformedRoadmapError) Unwrap() error { return e.Err }
