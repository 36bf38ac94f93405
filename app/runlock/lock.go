package runlock

import (
	"errors"
)

var ErrLocked = errors.New("another run holds the lock")

// Lock is held for the whole run and released by Release.
type Lock struct {
	path    string
	release func() error
}

func (l *Lock) Path() string {
	return l.path
}

func (l *Lock) Release() error {
	if l == nil || l.release == nil {
		return nil
	}
	release := l.release
	l.release = nil
	return release()
}
