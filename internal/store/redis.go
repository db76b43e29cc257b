package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/zenithlab/zenith-bot/internal/conversation"
)

const defaultRedisPrefix = "zenith:session:"

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore shares sessions between instances. Keys never expire.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects and pings the server before returning.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}

	return newRedisStore(rdb, opts.Prefix), nil
}

func newRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (conversation.Session, error) {
	data, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return conversation.NewSession(userID), nil
	}
	if err != nil {
		return conversation.Session{}, fmt.Errorf("reading session %s: %w", userID, err)
	}

	sess := conversation.NewSession(userID)
	if err := json.Unmarshal(data, &sess); err != nil {
		return conversation.Session{}, fmt.Errorf("decoding session %s: %w", userID, err)
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess conversation.Session) error {
	if sess.UserID == "" {
		return ErrEmptyUserID
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", sess.UserID, err)
	}
	if err := s.rdb.Set(ctx, s.key(sess.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("writing session %s: %w", sess.UserID, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
