package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "workplacify:session:"

var (
	ErrInvalid = errors.New("session: invalid")
	// ErrExists is returned by Create when the id is already taken.
	ErrExists = errors.New("session: already exists")
	// ErrNotFound is returned by Update when the session is gone.
	ErrNotFound = errors.New("session: not found")
)

// RedisStore keeps each session as a JSON value whose Redis TTL ends
// with the session.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces the session keys.
func WithKeyPrefix(prefix string) RedisOption {
	return func(r *RedisStore) { r.prefix = prefix }
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	r := &RedisStore{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

// Create stores a new session. It never overwrites an existing one.
func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return fmt.Errorf("%w: session_id and user_id are required", ErrInvalid)
	}

	err := r.write(ctx, s, "NX")
	if errors.Is(err, redis.Nil) {
		return ErrExists
	}
	return err
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

// Update replaces a live session and moves its TTL to the new expiry.
// A session updated into the past is deleted instead.
func (r *RedisStore) Update(ctx context.Context, s Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("%w: session_id is required", ErrInvalid)
	}
	if !time.Now().Before(s.ExpiresAt) {
		return r.Delete(ctx, s.SessionID)
	}

	err := r.write(ctx, s, "XX")
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}

// write runs SET with mode NX or XX; redis.Nil means the mode refused.
func (r *RedisStore) write(ctx context.Context, s Session, mode string) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: expires_at must be in the future", ErrInvalid)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	return r.client.SetArgs(ctx, r.key(s.SessionID), data, redis.SetArgs{
		Mode: mode,
		TTL:  ttl,
	}).Err()
}
