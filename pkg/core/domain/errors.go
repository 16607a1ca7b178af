package domain

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means no owner identity is available. Fatal to the
// session; the hosting layer redirects to authentication.
var ErrAuthRequired = errors.New("authentication required")

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// FetchError reports a failed load from the remote store. The caller keeps
// its previous state and may retry the load.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch failed: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// WriteError reports a failed upsert or delete. Local optimistic state is
// retained as-is; the list may diverge from remote until the next sync.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write failed (%s): %v", e.Op, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// SubscriptionError reports a change-notification stream that failed to
// establish or was dropped. Non-fatal: inbound updates stop arriving until
// the caller resubscribes.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string { return fmt.Sprintf("subscription failed: %v", e.Err) }
func (e *SubscriptionError) Unwrap() error { return e.Err }
