// Package store persists conversation sessions keyed by user id.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zenithlab/zenith-bot/internal/conversation"
)

// ErrEmptyUserID is returned when a session without a user id is written.
var ErrEmptyUserID = errors.New("store: empty user id")

// Store is the session key-value abstraction the bot depends on.
// Get returns conversation.NewSession(userID) for unknown users.
// Put overwrites unconditionally; concurrent writers to the same key are
// last-writer-wins, so callers serialize per user if they need more.
type Store interface {
	Get(ctx context.Context, userID string) (conversation.Session, error)
	Put(ctx context.Context, s conversation.Session) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend string

	DataDir string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	DatabaseURL string
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBolt:
		return NewBoltStore(filepath.Join(opts.DataDir, "zenith.db"))
	case BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}
