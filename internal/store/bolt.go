package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/zenithlab/zenith-bot/internal/conversation"
)

var sessionsBucket = []byte("sessions")

// BoltStore keeps sessions in a single-file bbolt database so they survive
// restarts of a single instance.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, userID string) (conversation.Session, error) {
	sess := conversation.NewSession(userID)
	if userID == "" {
		return sess, nil
	}
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(userID))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &sess)
	})
	if err != nil {
		return conversation.Session{}, fmt.Errorf("reading session %s: %w", userID, err)
	}
	return sess, nil
}

func (s *BoltStore) Put(_ context.Context, sess conversation.Session) error {
	if sess.UserID == "" {
		return ErrEmptyUserID
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(sess)
		if err != nil {
			return err
		}
		return tx.Bucket(sessionsBucket).Put([]byte(sess.UserID), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
