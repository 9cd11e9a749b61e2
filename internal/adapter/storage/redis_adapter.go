package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/port"
)

// maxWatchRetries bounds how often Update re-runs after another client
// modified the key between WATCH and EXEC.
const maxWatchRetries = 8

var ErrWatchConflict = errors.New("state key changed concurrently")

type RedisAdapter struct {
	client *redis.Client
	key    string
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, key: StateKey}
}

func (r *RedisAdapter) Load(ctx context.Context) (domain.Inventory, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Inventory{}, domain.ErrNotInitialized
	}
	if err != nil {
		return domain.Inventory{}, storageError("get state", err)
	}

	return decodeInventory(data)
}

// Create writes the record with SETNX so only the first instantiate wins.
func (r *RedisAdapter) Create(ctx context.Context, inv domain.Inventory) error {
	data, err := encodeInventory(inv)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.key, data, 0).Result()
	if err != nil {
		return storageError("setnx state", err)
	}
	if !ok {
		return domain.ErrAlreadyInitialized
	}
	return nil
}

func (r *RedisAdapter) Save(ctx context.Context, inv domain.Inventory) error {
	data, err := encodeInventory(inv)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return storageError("set state", err)
	}
	return nil
}

// Update runs fn inside a WATCH/MULTI transaction on the state key.
func (r *RedisAdapter) Update(ctx context.Context, fn port.UpdateFunc) (domain.Inventory, error) {
	var (
		next  domain.Inventory
		fnErr error
	)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, r.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotInitialized
		}
		if err != nil {
			return storageError("get state", err)
		}

		current, err := decodeInventory(data)
		if err != nil {
			return err
		}

		next, fnErr = fn(current)
		if fnErr != nil {
			return fnErr
		}

		encoded, err := encodeInventory(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, encoded, 0)
			return nil
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			return storageError("set state", err)
		}
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		fnErr = nil
		err := r.client.Watch(ctx, txf, r.key)
		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case fnErr != nil:
			return domain.Inventory{}, fnErr
		case errors.Is(err, domain.ErrStorageFailure), errors.Is(err, domain.ErrNotInitialized):
			return domain.Inventory{}, err
		default:
			return domain.Inventory{}, storageError("watch state", err)
		}
	}

	return domain.Inventory{}, storageError("update state", ErrWatchConflict)
}
