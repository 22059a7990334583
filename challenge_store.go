package authlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const challengeRecordVersionV1 = 1

var (
	errChallengeNotFound         = errors.New("challenge record not found")
	errChallengeRedisUnavailable = errors.New("challenge redis unavailable")
)

// challengeStore persists opaque challenge attributes in redis under a
// versioned binary record. Records expire server-side; the store never
// reads back an expired entry.
type challengeStore struct {
	redis  *redis.Client
	prefix string
}

func newChallengeStore(redisClient *redis.Client, prefix string) *challengeStore {
	return &challengeStore{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *challengeStore) key(id string) string {
	return s.prefix + ":challenge:" + id
}

// Set writes attrs under id with the given ttl. The write is a whole-record
// upsert: a concurrent writer for the same id wins or loses wholesale,
// records never interleave.
func (s *challengeStore) Set(ctx context.Context, id string, attrs []byte, ttl time.Duration) error {
	encoded := encodeChallengeRecord(attrs)

	if err := s.redis.Set(ctx, s.key(id), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", errChallengeRedisUnavailable, err)
	}

	return nil
}

// Get returns the attrs stored under id. A missing or expired id yields
// errChallengeNotFound; any backend failure is wrapped in
// errChallengeRedisUnavailable.
func (s *challengeStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errChallengeNotFound
		}
		return nil, fmt.Errorf("%w: %v", errChallengeRedisUnavailable, err)
	}

	return decodeChallengeRecord(data)
}

func encodeChallengeRecord(attrs []byte) []byte {
	encoded := make([]byte, 1+len(attrs))
	encoded[0] = challengeRecordVersionV1
	copy(encoded[1:], attrs)
	return encoded
}

func decodeChallengeRecord(data []byte) ([]byte, error) {
	if len(data) < 1 {
		return nil, errors.New("challenge record truncated")
	}
	if data[0] != challengeRecordVersionV1 {
		return nil, errors.New("invalid challenge record version")
	}

	attrs := make([]byte, len(data)-1)
	copy(attrs, data[1:])
	return attrs, nil
}
