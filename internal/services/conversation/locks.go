package conversation

import (
	"context"
	"sync"
)

// sessionLocks serializes work per conversation id. Entries are reference
// counted and dropped once nobody holds or waits for them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	ch   chan struct{}
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until the conversation is free or ctx is done. Waiters are not
// woken in arrival order; transports that need ordering queue per chat.
func (s *sessionLocks) Lock(ctx context.Context, id string) (unlock func(), err error) {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sessionLock{ch: make(chan struct{}, 1)}
		s.locks[id] = lock
	}
	lock.refs++
	s.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		s.release(id, lock)
		return nil, ctx.Err()
	}

	return func() {
		<-lock.ch
		s.release(id, lock)
	}, nil
}

func (s *sessionLocks) release(id string, lock *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, id)
	}
}

func (s *sessionLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
