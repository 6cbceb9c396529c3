package store

import (
	"context"
	"errors"

	"github.com/Fork0n/open-hoot/internal/models"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyExists = errors.New("session code already exists")
	ErrContention    = errors.New("store transaction aborted by contention")
)

// UpdateFunc derives the next session value from the current one. It receives
// a private copy and may be re-invoked with a fresh copy when the update hits
// concurrent contention; it must be free of side effects. Returning an error
// aborts the update without writing.
type UpdateFunc func(s *models.Session) error

// SessionStore is the transactional document store the session core runs
// against. Keys are canonical session codes. Implementations must make
// TransactionalUpdate atomic with respect to its own read: two concurrent
// updates of the same code must serialize, and updates of different codes
// must not contend with each other.
type SessionStore interface {
	// Get returns the session stored under code, or ErrNotFound.
	Get(ctx context.Context, code string) (*models.Session, error)

	// CreateIfAbsent stores value under code only if the code is free,
	// otherwise returns ErrAlreadyExists.
	CreateIfAbsent(ctx context.Context, code string, value *models.Session) error

	// TransactionalUpdate applies fn to the current value as one atomic
	// read-modify-write and returns the committed result. It returns
	// ErrNotFound for unknown codes, fn's error unchanged when fn aborts,
	// and ErrContention when the write keeps losing races past the
	// implementation's internal retry budget.
	TransactionalUpdate(ctx context.Context, code string, fn UpdateFunc) (*models.Session, error)
}
