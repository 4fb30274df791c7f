package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RejectedError is a reachable server answering with a failure. Message is
// the human-readable reason found in the body, empty when there was none.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rejected with status %d", e.Status)
	}
	return fmt.Sprintf("rejected with status %d: %s", e.Status, e.Message)
}
