package memory

import (
	"context"
	"sync"
	"time"

	"github.com/savannahworks/uliza/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use. Intended for tests and the local dial
// simulator; production deployments use the redis adapter.
type Store struct {
	data  map[string]*domain.Session
	grace time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

type Option func(*Store)

// WithClock overrides the time source. Tests use this to control
// expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithGrace sets how long inactive sessions linger before a purge
// removes them.
func WithGrace(grace time.Duration) Option {
	return func(s *Store) {
		s.grace = grace
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data:  make(map[string]*domain.Session),
		grace: time.Minute,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadOrCreate returns the live session for the key or creates a fresh
// one at rootNode.
func (s *Store) LoadOrCreate(ctx context.Context, sessionID, callerID, serviceCode, rootNode string, ttl time.Duration) (*domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if cur, ok := s.data[sessionID]; ok && live(cur, callerID, serviceCode, now) {
		return cur.Clone(), false, nil
	}

	fresh := domain.NewSession(sessionID, callerID, serviceCode, rootNode, now, ttl)
	fresh.Version = 1
	s.data[sessionID] = fresh
	return fresh.Clone(), true, nil
}

// Save persists the session, conditional on its version.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[sess.SessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if cur.Version != sess.Version {
		return domain.ErrVersionConflict
	}

	sess.Version++
	s.data[sess.SessionID] = sess.Clone()
	return nil
}

// Expire marks a session inactive. Idempotent.
func (s *Store) Expire(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[sessionID]
	if !ok {
		return nil
	}
	cur.Active = false
	cur.ExpiresAt = s.now()
	cur.Version++
	return nil
}

// PurgeExpired deletes expired and inactive-beyond-grace sessions,
// re-checking expiry under the lock just before delete.
func (s *Store) PurgeExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purged := 0
	for id, sess := range s.data {
		dead := sess.Active && sess.Expired(now)
		graced := !sess.Active && now.After(sess.ExpiresAt.Add(s.grace))
		if dead || graced {
			delete(s.data, id)
			purged++
		}
	}
	return purged, nil
}

func live(s *domain.Session, callerID, serviceCode string, now time.Time) bool {
	return s.Active && !s.Expired(now) && s.CallerID == callerID && s.ServiceCode == serviceCode
}
