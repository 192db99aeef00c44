// Package lock serializes work per key, either inside this process or
// across processes through Redis.
package lock

import "errors"

// ErrLockTimeout is returned when a lock could not be acquired before the
// context was done.
var ErrLockTimeout = errors.New("timed out waiting for lock")
