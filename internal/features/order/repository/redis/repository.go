package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tigon-bot-backend/internal/features/order/models"
	"tigon-bot-backend/internal/features/order/repository"
)

const keyPrefix = "order:"

// consumedMarker replaces the payload once an order is taken, keeping the
// remaining TTL so a redelivered confirmation is answered with "already
// consumed" instead of "not found" until the quote would have expired anyway.
const consumedMarker = "__consumed__"

// takeScript is the single atomic primitive behind Take. GET and the
// mark-consumed SET happen in one script, never as two round trips.
var takeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return false
end
if v == ARGV[1] then
  return 1
end
local ttl = redis.call('PTTL', KEYS[1])
redis.call('SET', KEYS[1], ARGV[1])
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
end
return v
`)

type orderStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOrderStore(client *redis.Client, ttl time.Duration) repository.OrderStore {
	return &orderStore{client: client, ttl: ttl}
}

func (s *orderStore) Put(ctx context.Context, payload models.Payload) (string, error) {
	order := models.Order{
		ID:        uuid.NewString(),
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %w", err)
	}

	key := keyPrefix + order.ID
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store order: %w", err)
	}
	return order.ID, nil
}

func (s *orderStore) Take(ctx context.Context, id string) (models.Payload, error) {
	res, err := takeScript.Run(ctx, s.client, []string{keyPrefix + id}, consumedMarker).Result()
	if err == redis.Nil {
		return models.Payload{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Payload{}, fmt.Errorf("failed to take order: %w", err)
	}

	switch v := res.(type) {
	case int64:
		return models.Payload{}, repository.ErrConsumed
	case string:
		var order models.Order
		if err := json.Unmarshal([]byte(v), &order); err != nil {
			return models.Payload{}, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		return order.Payload, nil
	default:
		return models.Payload{}, fmt.Errorf("unexpected take reply %T", res)
	}
}
