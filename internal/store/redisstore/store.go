package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/suPer8Hu/taim-chat/internal/snapshot"
)

const keyPrefix = "taim:snapshot:"

type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) Get(ctx context.Context, slot string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, keyPrefix+slot).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, snapshot.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Put stores the slot without expiry.
func (s *Store) Put(ctx context.Context, slot string, payload []byte) error {
	return s.rdb.Set(ctx, keyPrefix+slot, payload, 0).Err()
}
