package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tigon-bot-backend/internal/features/order/models"
	"tigon-bot-backend/internal/features/order/repository"
)

type entry struct {
	order    models.Order
	consumed bool
}

// orderStore is the in-memory backing. The mutex makes Take a single atomic
// read-and-mark, matching the Redis script semantics.
type orderStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewOrderStore(ttl time.Duration) repository.OrderStore {
	return &orderStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *orderStore) Put(ctx context.Context, payload models.Payload) (string, error) {
	order := models.Order{
		ID:        uuid.NewString(),
		Payload:   payload,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[order.ID] = &entry{order: order}
	return order.ID, nil
}

func (s *orderStore) Take(ctx context.Context, id string) (models.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return models.Payload{}, repository.ErrNotFound
	}
	if s.ttl > 0 && s.now().Sub(e.order.CreatedAt) > s.ttl {
		delete(s.entries, id)
		return models.Payload{}, repository.ErrNotFound
	}
	if e.consumed {
		return models.Payload{}, repository.ErrConsumed
	}
	e.consumed = true
	return e.order.Payload, nil
}
