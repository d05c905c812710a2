package repository

import (
	"context"
	"errors"

	"tigon-bot-backend/internal/features/order/models"
)

// ErrNotFound covers both a never-seen id and an expired order: an expired
// quote must never execute with stale pricing.
var ErrNotFound = errors.New("order not found")

// ErrConsumed is a second Take on the same id. The confirming callback can be
// redelivered by the chat transport; this error is what prevents a double
// submission.
var ErrConsumed = errors.New("order already consumed")

// OrderStore holds a quote between computation and confirmation with
// at-most-once consumption.
type OrderStore interface {
	// Put stores the payload under a fresh collision-negligible id.
	Put(ctx context.Context, payload models.Payload) (string, error)

	// Take atomically reads the payload and marks the order consumed, as one
	// primitive. Two concurrent Takes on one id yield exactly one payload.
	Take(ctx context.Context, id string) (models.Payload, error)
}
