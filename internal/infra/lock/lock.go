// Package lock serializes work per key, across processes through redis or
// inside one process when redis is not configured.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrTimeout = errors.New("lock: timed out waiting for key")

// Release frees a held key. Calling it more than once is harmless.
type Release func()

// ===============================
// Redis
// ===============================

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	script *redis.Script
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		script: redis.NewScript(releaseScript),
	}
}

// Acquire blocks until key is free or ctx is done. The key expires after
// the configured TTL so a crashed holder cannot wedge it.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	token := uuid.NewString()
	full := l.prefix + key

	for {
		ok, err := l.client.SetNX(ctx, full, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ErrTimeout
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = l.script.Run(context.Background(), l.client, []string{full}, token).Err()
		})
	}, nil
}

// ===============================
// In-process
// ===============================

// MemoryLocker keeps one slot per key while anyone holds or waits on it.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch    chan struct{}
	users int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: map[string]*slot{}}
}

func (l *MemoryLocker) join(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.users++
	return s
}

func (l *MemoryLocker) leave(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.users--
	if s.users == 0 {
		delete(l.slots, key)
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Release, error) {
	s := l.join(key)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, s)
		return nil, ErrTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.leave(key, s)
		})
	}, nil
}
