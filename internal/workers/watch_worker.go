package workers

import (
	"context"
	"strconv"
	"sync"
	"time"

	go_redis "github.com/redis/go-redis/v9"

	"tigon-bot-backend/internal/common/logger"
	"tigon-bot-backend/internal/features/watch/bus"
	watchrepo "tigon-bot-backend/internal/features/watch/repository"
	"tigon-bot-backend/internal/platform/redis"
)

const consumerGroup = "chain_watcher_consumers"
const consumerName = "chain_watcher_1"

// seenTTL bounds how long processed event ids are remembered for dedup.
const seenTTL = time.Hour

// ChainWatcher is the external collaborator adjusting on-chain coverage.
type ChainWatcher interface {
	Cover(ctx context.Context, address string, channelID int64) error
	Drop(ctx context.Context, address string, channelID int64) error
}

// WatchWorker feeds coverage changes from the watch stream to the chain
// watcher. Delivery is at least once, so the worker de-duplicates on event
// id; after a restart it resyncs from a full registry scan before consuming.
type WatchWorker struct {
	rdb      *redis.Client
	registry watchrepo.WatchRegistry
	watcher  ChainWatcher

	mu   sync.Mutex
	seen map[string]time.Time
}

func NewWatchWorker(rdb *redis.Client, registry watchrepo.WatchRegistry, watcher ChainWatcher) *WatchWorker {
	return &WatchWorker{
		rdb:      rdb,
		registry: registry,
		watcher:  watcher,
		seen:     make(map[string]time.Time),
	}
}

// Start initializes and then consumes the stream until the context is done.
func (w *WatchWorker) Start(ctx context.Context) {
	w.init(ctx)

	logger.Info().Msg("Watch stream worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Watch stream worker stopped")
			return
		default:
			entries, err := w.rdb.XReadGroup(ctx, &go_redis.XReadGroupArgs{
				Group:    consumerGroup,
				Consumer: consumerName,
				Streams:  []string{bus.Stream, ">"},
				Count:    16,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if err != go_redis.Nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("Failed to read watch stream")
					time.Sleep(time.Second)
				}
				continue
			}

			for _, stream := range entries {
				for _, msg := range stream.Messages {
					w.processMessage(ctx, msg.Values)
					w.rdb.XAck(ctx, bus.Stream, consumerGroup, msg.ID)
				}
			}
		}
	}
}

// init creates the consumer group before resyncing. In that order a change
// published while the resync scan runs lands in the group's backlog; created
// after, it would fall between the scan point and "$" and be lost until the
// next restart.
func (w *WatchWorker) init(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, bus.Stream, consumerGroup, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		logger.Error().Err(err).Msg("Failed to create consumer group")
	}

	if err := w.resync(ctx); err != nil {
		logger.Error().Err(err).Msg("Watch registry resync failed")
	}
}

// resync replays the durable registry into the watcher. This is how a change
// whose publish was lost to a crash eventually reaches coverage.
func (w *WatchWorker) resync(ctx context.Context) error {
	entries, err := w.registry.All(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		for _, ch := range entry.Subscribers {
			if err := w.watcher.Cover(ctx, entry.Address, ch); err != nil {
				logger.Error().Err(err).
					Str("address", entry.Address).
					Int64("channel_id", ch).
					Msg("Failed to resync watch coverage")
			}
		}
	}
	logger.Info().Int("addresses", len(entries)).Msg("Watch registry resynced")
	return nil
}

func (w *WatchWorker) processMessage(ctx context.Context, values map[string]interface{}) {
	eventID, _ := values["event_id"].(string)
	address, _ := values["address"].(string)
	changeType, _ := values["type"].(string)
	channelIDStr, _ := values["channel_id"].(string)

	if address == "" || channelIDStr == "" {
		logger.Warn().Interface("values", values).Msg("Malformed watch event")
		return
	}
	channelID, err := strconv.ParseInt(channelIDStr, 10, 64)
	if err != nil {
		logger.Warn().Str("channel_id", channelIDStr).Msg("Invalid channel id in watch event")
		return
	}

	if eventID != "" && w.alreadySeen(eventID) {
		logger.Debug().Str("event_id", eventID).Msg("Skipping duplicate watch event")
		return
	}

	switch bus.ChangeType(changeType) {
	case bus.ChangeAdd:
		err = w.watcher.Cover(ctx, address, channelID)
	case bus.ChangeRemove:
		err = w.watcher.Drop(ctx, address, channelID)
	default:
		logger.Warn().Str("type", changeType).Msg("Unknown watch event type")
		return
	}
	if err != nil {
		logger.Error().Err(err).
			Str("address", address).
			Int64("channel_id", channelID).
			Str("type", changeType).
			Msg("Failed to apply watch change")
	}
}

// alreadySeen records the event id and reports whether it was processed
// before, pruning entries older than seenTTL.
func (w *WatchWorker) alreadySeen(eventID string) bool {
	now := time.Now()

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.seen[eventID]; ok {
		return true
	}
	w.seen[eventID] = now
	for id, at := range w.seen {
		if now.Sub(at) > seenTTL {
			delete(w.seen, id)
		}
	}
	return false
}
