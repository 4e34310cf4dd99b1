package ports

import (
	"context"
	"time"

	"github.com/savannahworks/uliza/pkg/domain"
)

// SessionStore defines the interface for persisting dialog sessions.
// All cross-request state lives behind this interface so that
// consecutive requests for the same session may land on different
// process instances.
type SessionStore interface {
	// LoadOrCreate returns the live session for (sessionID, callerID),
	// or creates a fresh one positioned at rootNode. An expired or
	// inactive record, or one bound to a different service code, is
	// replaced by a fresh session. The second of two concurrent
	// creators observes the first's session; created reports which
	// side this caller was on.
	LoadOrCreate(ctx context.Context, sessionID, callerID, serviceCode, rootNode string, ttl time.Duration) (s *domain.Session, created bool, err error)

	// Save persists node/stack/context/expiry atomically, conditional
	// on the session's Version. Returns domain.ErrVersionConflict when
	// a concurrent writer advanced the session first. On success the
	// stored and in-memory Version are incremented.
	Save(ctx context.Context, s *domain.Session) error

	// Expire marks a session inactive. Idempotent; expiring a missing
	// session is not an error.
	Expire(ctx context.Context, sessionID string) error

	// PurgeExpired deletes all sessions whose expiry has passed,
	// re-checking expiry just before each delete so a concurrently
	// extended session survives. Returns the number purged.
	PurgeExpired(ctx context.Context) (int, error)
}
