package store

import "fmt"

// Error reports a failed read or write of local state. Storage failures
// are never retried.
type Error struct {
	Op  string // "load", "save", "delete"
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
