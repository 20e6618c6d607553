package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/sterlingmedical/medsupply-backend/pkg/redis"
)

// Store mirrors one cart state to a single durable slot per token. There is
// exactly one logical writer per token (the active storefront session);
// concurrent writers are not reconciled and the last write wins.
type Store interface {
	Load(ctx context.Context, token string) (State, error)
	Save(ctx context.Context, token string, state State) error
	Drop(ctx context.Context, token string) error
}

type slotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type slotKeyer interface {
	CartKey(token string) string
}

// RedisStore keeps each cart in one Redis string slot holding the JSON
// array of lines.
type RedisStore struct {
	store slotStore
	keyer slotKeyer
}

// NewRedisStore builds the cart persistence adapter.
func NewRedisStore(client *redisclient.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{store: client, keyer: client}, nil
}

// Load reads the slot for the token. A missing slot or malformed payload
// yields an empty state, never an error; only transport failures propagate.
func (s *RedisStore) Load(ctx context.Context, token string) (State, error) {
	raw, err := s.store.Get(ctx, s.keyer.CartKey(token))
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return State{}, nil
		}
		return nil, fmt.Errorf("load cart slot: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupt slots fall back to an empty cart.
		return State{}, nil
	}
	return state, nil
}

// Save serializes the full state and overwrites the slot. Carts are durable
// client-scoped values, so no TTL is applied.
func (s *RedisStore) Save(ctx context.Context, token string, state State) error {
	if state == nil {
		state = State{}
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart state: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.CartKey(token), string(payload), 0); err != nil {
		return fmt.Errorf("save cart slot: %w", err)
	}
	return nil
}

// Drop removes the slot entirely.
func (s *RedisStore) Drop(ctx context.Context, token string) error {
	if err := s.store.Del(ctx, s.keyer.CartKey(token)); err != nil {
		return fmt.Errorf("drop cart slot: %w", err)
	}
	return nil
}
