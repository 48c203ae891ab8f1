package services

import "sync"

// courtLocks serializes check-and-write sequences per court within this process.
type courtLocks struct {
	mu    sync.Mutex
	locks map[string]*courtLock
}

type courtLock struct {
	sync.Mutex
	refs int
}

func newCourtLocks() *courtLocks {
	return &courtLocks{locks: make(map[string]*courtLock)}
}

// Lock blocks until the court is free and returns the matching unlock.
func (cl *courtLocks) Lock(court string) func() {
	cl.mu.Lock()
	l, ok := cl.locks[court]
	if !ok {
		l = &courtLock{}
		cl.locks[court] = l
	}
	l.refs++
	cl.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		cl.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(cl.locks, court)
		}
		cl.mu.Unlock()
	}
}
