// Package lock provides per-key reservations that serialize the
// check-then-insert sequences of the booking service.
package lock

import "errors"

// ErrBusy is returned when a key stays held past the acquisition budget.
var ErrBusy = errors.New("another request for the same schedule is in progress")
