package driven

import (
	"context"

	"github.com/custodia-labs/signin/internal/core/domain"
)

// SessionStore persists server-side session state keyed by session ID.
type SessionStore interface {
	// Save stores a session. Creates if new, updates if exists.
	Save(ctx context.Context, session domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound if no session exists.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes a session by ID. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
