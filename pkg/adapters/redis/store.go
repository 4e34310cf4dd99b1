package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/savannahworks/uliza/pkg/domain"
)

// Store implements ports.SessionStore using Redis.
//
// Layout: one JSON blob per session, a plain integer version key
// guarding conditional writes, and a ZSET index scored by the moment a
// session becomes purge-eligible. Scripted writes keep blob, version
// and index consistent; the purge script re-checks the score before
// deleting so a concurrently extended session survives the sweep.
type Store struct {
	client *backend.Client
	prefix string
	grace  time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithGrace sets how long session records outlive their logical expiry
// before the janitor removes them.
func WithGrace(grace time.Duration) Option {
	return func(s *Store) {
		s.grace = grace
	}
}

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "uliza:session:",
		grace:  time.Minute,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) dataKey(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) verKey(sessionID string) string {
	return s.prefix + "ver:" + sessionID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// createScript installs a fresh session only if none exists, so the
// second of two concurrent creators loses and observes the winner.
var createScript = backend.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SET", KEYS[2], "1", "PX", ARGV[2])
redis.call("ZADD", KEYS[3], ARGV[3], ARGV[4])
return 1
`)

// replaceScript swaps a stale record for a fresh session, but only if
// the record has not changed since the caller read it.
var replaceScript = backend.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur and cur ~= ARGV[5] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
redis.call("SET", KEYS[2], "1", "PX", ARGV[2])
redis.call("ZADD", KEYS[3], ARGV[3], ARGV[4])
return 1
`)

// saveScript is the conditional write: it applies the new blob only if
// the stored version still matches what the caller loaded.
var saveScript = backend.NewScript(`
local v = redis.call("GET", KEYS[2])
if not v then
	return -1
end
if tonumber(v) ~= tonumber(ARGV[2]) then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
redis.call("INCR", KEYS[2])
redis.call("PEXPIRE", KEYS[2], ARGV[3])
redis.call("ZADD", KEYS[3], ARGV[4], ARGV[5])
return 1
`)

// purgeScript deletes one candidate, re-checking its score first so a
// session extended after the sweep began is left alone.
var purgeScript = backend.NewScript(`
local score = redis.call("ZSCORE", KEYS[3], ARGV[1])
if score and tonumber(score) > tonumber(ARGV[2]) then
	return 0
end
redis.call("DEL", KEYS[1])
redis.call("DEL", KEYS[2])
redis.call("ZREM", KEYS[3], ARGV[1])
return 1
`)

func (s *Store) keys(sessionID string) []string {
	return []string{s.dataKey(sessionID), s.verKey(sessionID), s.indexKey()}
}

// px returns the physical key lifetime: the logical TTL plus the grace
// window, never below the grace window itself.
func (s *Store) px(ttl time.Duration) int64 {
	lifetime := ttl + s.grace
	if lifetime < s.grace {
		lifetime = s.grace
	}
	return lifetime.Milliseconds()
}

// LoadOrCreate returns the live session for (sessionID, callerID) or
// installs a fresh one at rootNode.
func (s *Store) LoadOrCreate(ctx context.Context, sessionID, callerID, serviceCode, rootNode string, ttl time.Duration) (*domain.Session, bool, error) {
	for attempt := 0; attempt < 3; attempt++ {
		now := s.now()

		raw, err := s.client.Get(ctx, s.dataKey(sessionID)).Result()
		switch {
		case errors.Is(err, backend.Nil):
			fresh := domain.NewSession(sessionID, callerID, serviceCode, rootNode, now, ttl)
			fresh.Version = 1
			data, err := json.Marshal(fresh)
			if err != nil {
				return nil, false, fmt.Errorf("marshal session: %w", err)
			}
			ok, err := createScript.Run(ctx, s.client, s.keys(sessionID),
				data, s.px(ttl), fresh.ExpiresAt.Unix(), sessionID).Int()
			if err != nil {
				return nil, false, fmt.Errorf("create session: %w", err)
			}
			if ok == 1 {
				return fresh, true, nil
			}
			// Lost the race; loop to load the winner's session.
			continue

		case err != nil:
			return nil, false, fmt.Errorf("load session: %w", err)
		}

		var cur domain.Session
		if err := json.Unmarshal([]byte(raw), &cur); err != nil {
			return nil, false, fmt.Errorf("unmarshal session: %w", err)
		}

		if cur.Active && !cur.Expired(now) && cur.CallerID == callerID && cur.ServiceCode == serviceCode {
			return &cur, false, nil
		}

		// Stale record (expired, deactivated, or rebound to another
		// caller/code): replace it with a fresh dialog.
		fresh := domain.NewSession(sessionID, callerID, serviceCode, rootNode, now, ttl)
		fresh.Version = 1
		data, err := json.Marshal(fresh)
		if err != nil {
			return nil, false, fmt.Errorf("marshal session: %w", err)
		}
		ok, err := replaceScript.Run(ctx, s.client, s.keys(sessionID),
			data, s.px(ttl), fresh.ExpiresAt.Unix(), sessionID, raw).Int()
		if err != nil {
			return nil, false, fmt.Errorf("replace session: %w", err)
		}
		if ok == 1 {
			return fresh, true, nil
		}
		// Record moved underneath us; loop and re-read.
	}

	return nil, false, fmt.Errorf("session %s: %w", sessionID, domain.ErrVersionConflict)
}

// Save persists the session conditional on its version. The session's
// Version is incremented on success, mirroring the store.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	loaded := sess.Version
	next := sess.Clone()
	next.Version = loaded + 1

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	res, err := saveScript.Run(ctx, s.client, s.keys(sess.SessionID),
		data, loaded, s.px(ttl), sess.ExpiresAt.Unix(), sess.SessionID).Int()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	switch res {
	case 1:
		sess.Version = next.Version
		return nil
	case 0:
		return domain.ErrVersionConflict
	default:
		return domain.ErrSessionNotFound
	}
}

// Expire marks a session inactive. Idempotent; unknown sessions are
// not an error. The record lingers for the grace window so late
// gateway retries see a clean "new dialog" rather than a gap.
func (s *Store) Expire(ctx context.Context, sessionID string) error {
	raw, err := s.client.Get(ctx, s.dataKey(sessionID)).Result()
	if errors.Is(err, backend.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var cur domain.Session
	if err := json.Unmarshal([]byte(raw), &cur); err != nil {
		return fmt.Errorf("unmarshal session: %w", err)
	}
	if !cur.Active {
		return nil
	}

	now := s.now()
	cur.Active = false
	cur.ExpiresAt = now
	cur.Version++
	data, err := json.Marshal(&cur)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.dataKey(sessionID), data, s.grace)
	pipe.Incr(ctx, s.verKey(sessionID))
	pipe.PExpire(ctx, s.verKey(sessionID), s.grace)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(now.Add(s.grace).Unix()),
		Member: sessionID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	return nil
}

// PurgeExpired removes every session whose purge deadline has passed.
func (s *Store) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now().Unix()

	candidates, err := s.client.ZRangeByScore(ctx, s.indexKey(), &backend.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list purge candidates: %w", err)
	}

	purged := 0
	for _, id := range candidates {
		ok, err := purgeScript.Run(ctx, s.client, s.keys(id), id, now).Int()
		if err != nil {
			return purged, fmt.Errorf("purge session %s: %w", id, err)
		}
		purged += ok
	}
	return purged, nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
