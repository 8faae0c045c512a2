// Package cache holds the redis-backed lock and statement cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fee-ledger/internal/domain"
)

const (
	lockKeyPrefix      = "fee-ledger:lock:"
	statementKeyPrefix = "fee-ledger:statement:"
	versionKeyPrefix   = "fee-ledger:statement-version:"
)

// Deletes the lock only if it still holds our token, so an expired lock
// re-acquired by another run is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a single-instance SET NX lock.
type RedisLocker struct {
	client redis.Cmdable
}

func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire tries to take name for ttl. When acquired is false the lock is
// held elsewhere and release is nil.
func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release = func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

// Writes the statement only while the student's version still equals the
// one read before the statement was computed.
var setIfVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisStatementCache stores rendered statements as JSON. Every student has
// a version counter bumped on invalidation, so a statement computed before
// a payment cannot be written back after the payment invalidated it.
type RedisStatementCache struct {
	client redis.Cmdable
}

func NewRedisStatementCache(client redis.Cmdable) *RedisStatementCache {
	return &RedisStatementCache{client: client}
}

func statementKey(studentID uuid.UUID) string {
	return statementKeyPrefix + studentID.String()
}

func versionKey(studentID uuid.UUID) string {
	return versionKeyPrefix + studentID.String()
}

// Version returns the student's current version, 0 before any invalidation.
func (c *RedisStatementCache) Version(ctx context.Context, studentID uuid.UUID) (int64, error) {
	version, err := c.client.Get(ctx, versionKey(studentID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

// Get returns found=false on a cache miss.
func (c *RedisStatementCache) Get(ctx context.Context, studentID uuid.UUID) (*domain.Statement, bool, error) {
	raw, err := c.client.Get(ctx, statementKey(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var statement domain.Statement
	if err := json.Unmarshal(raw, &statement); err != nil {
		return nil, false, fmt.Errorf("decode cached statement: %w", err)
	}
	return &statement, true, nil
}

// Set stores statement if the student's version is still version. A stale
// write is dropped silently.
func (c *RedisStatementCache) Set(ctx context.Context, statement *domain.Statement, version int64, ttl time.Duration) error {
	raw, err := json.Marshal(statement)
	if err != nil {
		return fmt.Errorf("encode statement: %w", err)
	}

	keys := []string{versionKey(statement.StudentID), statementKey(statement.StudentID)}
	return setIfVersionScript.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), raw, ttl.Milliseconds()).Err()
}

func (c *RedisStatementCache) Invalidate(ctx context.Context, studentIDs ...uuid.UUID) error {
	if len(studentIDs) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range studentIDs {
			pipe.Incr(ctx, versionKey(id))
			pipe.Del(ctx, statementKey(id))
		}
		return nil
	})
	return err
}
