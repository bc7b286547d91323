package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BookingWizard/internal/wizard"
)

// DefaultKeyPrefix префикс ключей сессий в Redis
const DefaultKeyPrefix = "wizard:session:"

// RedisStore хранит сессии в Redis с TTL, равным сроку жизни сессии.
// Save реализован через WATCH/MULTI, поэтому параллельные изменения одной сессии не теряются.
type RedisStore struct {
	client       *redis.Client
	prefix       string
	timeProvider TimeProvider
}

// NewRedisStore создает хранилище сессий в Redis
func NewRedisStore(client *redis.Client, prefix string, timeProvider TimeProvider) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}
	return &RedisStore{client: client, prefix: prefix, timeProvider: timeProvider}
}

// Create сохраняет новую сессию (SET NX)
func (s *RedisStore) Create(ctx context.Context, session *wizard.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl(session)).Result()
	if err != nil {
		return fmt.Errorf("%w: Create - setnx: %v", ErrStorage, err)
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

// Get возвращает сессию по ID
func (s *RedisStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get: %v", ErrStorage, err)
	}
	return decode(data)
}

// Save перезаписывает сессию, если её версия в Redis совпадает с прочитанной
func (s *RedisStore) Save(ctx context.Context, session *wizard.Session) error {
	key := s.key(session.ID)
	expected := session.Version
	next := *session
	next.Version = expected + 1

	data, err := encode(&next)
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: Save - get: %v", ErrStorage, err)
		}

		current, err := decode(raw)
		if err != nil {
			return err
		}
		if current.Version != expected {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl(&next))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		session.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// ключ изменился между WATCH и EXEC
		return ErrVersionConflict
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrVersionConflict),
		errors.Is(err, ErrDecode), errors.Is(err, ErrStorage):
		return err
	default:
		return fmt.Errorf("%w: Save - exec: %v", ErrStorage, err)
	}
}

// Delete удаляет сессию
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del: %v", ErrStorage, err)
	}
	return nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// ttl возвращает оставшееся время жизни; 0 означает ключ без срока
func (s *RedisStore) ttl(session *wizard.Session) time.Duration {
	if session.ExpiresAt.IsZero() {
		return 0
	}
	ttl := session.ExpiresAt.Sub(s.timeProvider.Now())
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
