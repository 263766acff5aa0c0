package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guided-checkout/guided-checkout/internal/domain/wizard"
)

const defaultPrefix = "wizard:session:"

// Config holds Redis connection settings.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewClient connects a go-redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 50
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Store implements wizard.Store on Redis. The session TTL is written
// as the key expiry, so Redis reclaims abandoned sessions on its own.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Get(ctx context.Context, shopperID uuid.UUID) ([]byte, error) {
	blob, err := s.client.Get(ctx, s.key(shopperID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
	}
	return blob, nil
}

func (s *Store) Set(ctx context.Context, shopperID uuid.UUID, blob []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(shopperID), blob, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, shopperID uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(shopperID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", wizard.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) key(shopperID uuid.UUID) string {
	return s.prefix + shopperID.String()
}
