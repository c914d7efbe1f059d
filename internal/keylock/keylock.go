// Package keylock serialises work per key. Commands against the same game
// or round run one at a time while unrelated keys proceed in parallel.
package keylock

import (
	"sync"

	"github.com/moby/locker"
)

// Locker hands out one mutex per key. The underlying locker drops a key
// once nobody holds or waits on it.
type Locker struct {
	locks *locker.Locker
}

// New creates an empty Locker
func New() *Locker {
	return &Locker{locks: locker.New()}
}

// Lock blocks until the key is free and returns its unlock func. Calling
// the unlock func more than once is safe.
func (l *Locker) Lock(key string) (unlock func()) {
	l.locks.Lock(key)

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = l.locks.Unlock(key)
		})
	}
}
