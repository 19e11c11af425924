package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aydinworks/content-advisor/internal/domain/session"
)

const keyPrefix = "advisor:session:"

// Store keeps anonymous sessions in Redis with a TTL. Expiry is the only
// teardown path; nothing deletes a session explicitly.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

func (s *Store) Create(ctx context.Context, sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+string(sess.Token), data, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, token session.Token) (*session.Session, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+string(token)).Bytes()
	if err == redis.Nil {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Touch extends the TTL of a live session
func (s *Store) Touch(ctx context.Context, token session.Token) error {
	ok, err := s.rdb.Expire(ctx, keyPrefix+string(token), s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
