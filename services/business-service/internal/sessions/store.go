package sessions

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Session is what an opaque bearer token resolves to.
type Session struct {
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
	Role       string `json:"role"`
}

// Store keeps opaque session tokens in Redis under their SHA-256 hash, so a
// leaked dump never contains usable tokens.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "session:" + hex.EncodeToString(sum[:])
}

// Create issues a new token for the session and returns the raw value to
// hand to the client.
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := hex.EncodeToString(buf)

	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, hashToken(raw), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return raw, nil
}

// Get resolves a raw token, refreshing its TTL on hit.
func (s *Store) Get(ctx context.Context, raw string) (Session, error) {
	key := hashToken(raw)
	payload, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, ErrNotFound
	}
	_ = s.rdb.Expire(ctx, key, s.ttl).Err()
	return sess, nil
}

func (s *Store) Revoke(ctx context.Context, raw string) error {
	return s.rdb.Del(ctx, hashToken(raw)).Err()
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
