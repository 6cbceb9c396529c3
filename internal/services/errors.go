package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both an unknown session code and an unknown player
	// within a known session.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyStarted rejects joins once the session has left the lobby.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotAccepting rejects answers while no question is live.
	ErrNotAccepting = errors.New("session is not accepting answers")

	// ErrIllegalTransition flags state-machine misuse by the caller.
	ErrIllegalTransition = errors.New("illegal session state transition")

	// ErrAllocationExhausted is returned when repeated random codes all
	// collide with live sessions. With a 36^6 code space this is effectively
	// a store malfunction, but it is surfaced rather than assumed away.
	ErrAllocationExhausted = errors.New("unable to allocate a unique session code")

	// ErrStoreContention is returned once the centralized retry policy has
	// given up on a persistently contended store transaction.
	ErrStoreContention = errors.New("session store contention")

	// ErrSessionFull rejects joins past the configured player limit.
	ErrSessionFull = errors.New("session is full")

	// ErrInvalidQuiz rejects quiz documents that fail schema validation.
	ErrInvalidQuiz = errors.New("invalid quiz document")

	// ErrInvalidCode rejects join codes that do not canonicalize to six
	// alphanumerics.
	ErrInvalidCode = errors.New("invalid session code")

	// ErrInvalidOption rejects answer option indexes outside [0,3].
	ErrInvalidOption = errors.New("invalid answer option")
)

// FetchError wraps any failure to retrieve or parse an external quiz
// document; the session is always left in its prior state.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch quiz from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
