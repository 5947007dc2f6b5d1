// SPDX-License-Identifier: AGPL-3.0-only

// Package singleton provides a file-based lock so only one API instance runs
// the background jobs when several share a database.
package singleton

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock represents an acquired job-runner lock.
type Lock struct {
	flock *flock.Flock
}

// TryAcquire attempts to acquire the lock at lockPath. It returns the lock
// and true if acquired (this instance runs the jobs), or nil and false if
// another process already holds it.
func TryAcquire(lockPath string) (*Lock, bool, error) {
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("singleton: try lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{flock: fl}, true, nil
}

// Release releases the lock.
func (l *Lock) Release() error {
	return l.flock.Unlock()
}
