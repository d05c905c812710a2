package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"tigon-bot-backend/internal/features/watch/repository"
)

const keyPrefix = "watch:addr:"

const maxUpdateRetries = 16

// record is the stored form. A JSON document per address, not a Redis set:
// Redis deletes empty sets, and the registry must keep an entry alive after
// its last subscriber leaves.
type record struct {
	Subscribers map[int64]bool `json:"subscribers"`
}

type watchRegistry struct {
	client *redis.Client
}

func NewWatchRegistry(client *redis.Client) repository.WatchRegistry {
	return &watchRegistry{client: client}
}

func key(address string) string {
	return keyPrefix + strings.ToLower(address)
}

func (r *watchRegistry) mutate(ctx context.Context, address string, apply func(*record) bool) (bool, error) {
	k := key(address)
	var changed bool

	txn := func(tx *redis.Tx) error {
		rec := record{Subscribers: map[int64]bool{}}
		data, err := tx.Get(ctx, k).Bytes()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to get watch entry: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal watch entry: %w", err)
			}
			if rec.Subscribers == nil {
				rec.Subscribers = map[int64]bool{}
			}
		}

		changed = apply(&rec)
		if !changed {
			// Nothing to persist. In particular an unsubscribe from a
			// never-watched address must not register the address.
			return nil
		}

		buf, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal watch entry: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, buf, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txn, k)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return false, err
		}
		return changed, nil
	}
	return false, fmt.Errorf("watch update for %s aborted after %d retries", address, maxUpdateRetries)
}

func (r *watchRegistry) Subscribe(ctx context.Context, address string, channelID int64) (bool, error) {
	return r.mutate(ctx, address, func(rec *record) bool {
		if rec.Subscribers[channelID] {
			return false
		}
		rec.Subscribers[channelID] = true
		return true
	})
}

func (r *watchRegistry) Unsubscribe(ctx context.Context, address string, channelID int64) (bool, error) {
	return r.mutate(ctx, address, func(rec *record) bool {
		if !rec.Subscribers[channelID] {
			return false
		}
		delete(rec.Subscribers, channelID)
		return true
	})
}

func (r *watchRegistry) Subscribers(ctx context.Context, address string) ([]int64, error) {
	data, err := r.client.Get(ctx, key(address)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get watch entry: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watch entry: %w", err)
	}
	return channelList(rec), nil
}

func (r *watchRegistry) All(ctx context.Context) ([]repository.Entry, error) {
	var entries []repository.Entry
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()

	for iter.Next(ctx) {
		k := iter.Val()
		data, err := r.client.Get(ctx, k).Bytes()
		if err != nil {
			continue
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		entries = append(entries, repository.Entry{
			Address:     strings.TrimPrefix(k, keyPrefix),
			Subscribers: channelList(rec),
		})
	}

	return entries, iter.Err()
}

func channelList(rec record) []int64 {
	out := make([]int64, 0, len(rec.Subscribers))
	for ch := range rec.Subscribers {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
