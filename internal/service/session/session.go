package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSessionRequired is returned when an operation is called without a
// session id.
var ErrSessionRequired = errors.New("session id is required")

// Store keeps each session's conversation history between requests. Loading
// an unknown or expired session yields an empty history.
type Store interface {
	Load(ctx context.Context, id string) ([]string, error)
	Save(ctx context.Context, id string, history []string) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
