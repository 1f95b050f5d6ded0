package service

import (
	"context"
	"sync"
	"time"
)

// sessionLocks serializes operations per session ID. Each session has
// exactly one logical owner at a time; a second caller waits up to the
// configured bound and is then rejected rather than interleaved.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{} // capacity 1, holds the token while locked
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{m: make(map[string]*lockEntry)}
}

// acquire takes the lock for id, waiting at most wait. On success the
// returned release func must be called exactly once.
func (l *sessionLocks) acquire(ctx context.Context, id string, wait time.Duration) (release func(), err error) {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			l.unref(id, e)
		}, nil
	case <-timer.C:
		l.unref(id, e)
		return nil, &SessionBusyError{SessionID: id}
	case <-ctx.Done():
		l.unref(id, e)
		return nil, ctx.Err()
	}
}

// unref drops a reference and removes the entry once nobody holds or
// waits for it, so the map does not grow with finished sessions.
func (l *sessionLocks) unref(id string, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.m, id)
	}
	l.mu.Unlock()
}
