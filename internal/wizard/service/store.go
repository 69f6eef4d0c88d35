package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/session"
)

// Store keeps live sessions in memory and evicts idle ones after a TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.SugaredLogger

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewStore creates a store. A positive sweepInterval starts the background sweeper;
// call Close to stop it.
func NewStore(ttl, sweepInterval time.Duration, logger *zap.SugaredLogger) *Store {
	st := &Store{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		st.wg.Add(1)
		go st.sweepLoop(sweepInterval)
	}
	return st
}

// Put adds a session.
func (st *Store) Put(s *session.Session) {
	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()
}

// Get returns the session owned by owner.
func (st *Store) Get(id, owner string) (*session.Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if s.Owner() != owner {
		return nil, model.ErrForbidden
	}
	s.Touch()
	return s, nil
}

// Delete removes a session and releases its resources.
func (st *Store) Delete(id, owner string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return model.ErrSessionNotFound
	}
	if s.Owner() != owner {
		st.mu.Unlock()
		return model.ErrForbidden
	}
	delete(st.sessions, id)
	st.mu.Unlock()

	s.Close()
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions untouched for longer than the TTL. Sessions with an upload or
// submission in flight are kept. It returns the number evicted.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	var expired []*session.Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.TouchedAt().Before(cutoff) && s.Idle() {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		st.logger.Infow("Expired wizard sessions evicted", "count", len(expired))
	}
	return len(expired)
}

func (st *Store) sweepLoop(interval time.Duration) {
	defer st.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			st.Sweep()
		}
	}
}

// Close stops the sweeper and releases every session.
func (st *Store) Close() {
	st.once.Do(func() {
		close(st.stop)
		st.wg.Wait()

		st.mu.Lock()
		for id, s := range st.sessions {
			s.Close()
			delete(st.sessions, id)
		}
		st.mu.Unlock()
	})
}
