package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lnmedico/lnmedico-backend/pkg/redis"
)

// RedisBackend stores each collection under lnmedico:collection:<name>.
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) (*RedisBackend, error) {
	if client == nil {
		return nil, errors.New("storage: redis client required")
	}
	return &RedisBackend{client: client}, nil
}

func (b *RedisBackend) Driver() string { return DriverRedis }

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := b.client.Get(ctx, b.client.CollectionKey(name))
	if redis.IsNil(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return data, nil
}

func (b *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.client.CollectionKey(name), data); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx)
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
