package workers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tigon-bot-backend/internal/features/watch/bus"
	watchrepo "tigon-bot-backend/internal/features/watch/repository"
	watchmemory "tigon-bot-backend/internal/features/watch/repository/memory"
	platformredis "tigon-bot-backend/internal/platform/redis"
)

type coverageCall struct {
	address   string
	channelID int64
}

type recordingWatcher struct {
	covered []coverageCall
	dropped []coverageCall
}

func (r *recordingWatcher) Cover(ctx context.Context, address string, channelID int64) error {
	r.covered = append(r.covered, coverageCall{address: address, channelID: channelID})
	return nil
}

func (r *recordingWatcher) Drop(ctx context.Context, address string, channelID int64) error {
	r.dropped = append(r.dropped, coverageCall{address: address, channelID: channelID})
	return nil
}

func TestProcessMessage_DispatchesAddAndRemove(t *testing.T) {
	watcher := &recordingWatcher{}
	w := NewWatchWorker(nil, watchmemory.NewWatchRegistry(), watcher)
	ctx := context.Background()

	w.processMessage(ctx, map[string]interface{}{
		"event_id": "ev-1", "address": "0xabc", "channel_id": "42", "type": "add",
	})
	w.processMessage(ctx, map[string]interface{}{
		"event_id": "ev-2", "address": "0xabc", "channel_id": "42", "type": "remove",
	})

	require.Len(t, watcher.covered, 1)
	assert.Equal(t, coverageCall{address: "0xabc", channelID: 42}, watcher.covered[0])
	require.Len(t, watcher.dropped, 1)
	assert.Equal(t, coverageCall{address: "0xabc", channelID: 42}, watcher.dropped[0])
}

func TestProcessMessage_DuplicateEventIDAppliedOnce(t *testing.T) {
	watcher := &recordingWatcher{}
	w := NewWatchWorker(nil, watchmemory.NewWatchRegistry(), watcher)
	ctx := context.Background()

	values := map[string]interface{}{
		"event_id": "ev-dup", "address": "0xabc", "channel_id": "7", "type": "add",
	}
	w.processMessage(ctx, values)
	w.processMessage(ctx, values)

	assert.Len(t, watcher.covered, 1)
}

func TestProcessMessage_MalformedValuesIgnored(t *testing.T) {
	watcher := &recordingWatcher{}
	w := NewWatchWorker(nil, watchmemory.NewWatchRegistry(), watcher)
	ctx := context.Background()

	w.processMessage(ctx, map[string]interface{}{"event_id": "ev-3", "type": "add"})
	w.processMessage(ctx, map[string]interface{}{
		"event_id": "ev-4", "address": "0xabc", "channel_id": "not-a-number", "type": "add",
	})
	w.processMessage(ctx, map[string]interface{}{
		"event_id": "ev-5", "address": "0xabc", "channel_id": "1", "type": "mystery",
	})

	assert.Empty(t, watcher.covered)
	assert.Empty(t, watcher.dropped)
}

// scanHookRegistry runs a callback when the full scan starts, standing in for
// a subscriber that changes the registry while resync is underway.
type scanHookRegistry struct {
	watchrepo.WatchRegistry
	onAll func()
}

func (r *scanHookRegistry) All(ctx context.Context) ([]watchrepo.Entry, error) {
	if r.onAll != nil {
		r.onAll()
	}
	return r.WatchRegistry.All(ctx)
}

func TestInit_EventPublishedDuringResyncStaysDeliverable(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rdb := &platformredis.Client{Client: client}
	ctx := context.Background()

	pub := bus.NewRedisPublisher(client)
	registry := &scanHookRegistry{
		WatchRegistry: watchmemory.NewWatchRegistry(),
		onAll: func() {
			require.NoError(t, pub.Publish(ctx, bus.ChangeEvent{
				EventID:   "ev-mid-resync",
				Address:   "0xabc",
				ChannelID: 9,
				Type:      bus.ChangeAdd,
			}))
		},
	}

	w := NewWatchWorker(rdb, registry, &recordingWatcher{})
	w.init(ctx)

	entries, err := client.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    consumerGroup,
		Consumer: consumerName,
		Streams:  []string{bus.Stream, ">"},
		Count:    16,
		Block:    -1 * time.Millisecond,
	}).Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Messages, 1)
	assert.Equal(t, "ev-mid-resync", entries[0].Messages[0].Values["event_id"])
}

func TestResync_ReplaysRegistryIntoWatcher(t *testing.T) {
	registry := watchmemory.NewWatchRegistry()
	ctx := context.Background()

	_, err := registry.Subscribe(ctx, "0xaaa", 1)
	require.NoError(t, err)
	_, err = registry.Subscribe(ctx, "0xaaa", 2)
	require.NoError(t, err)
	_, err = registry.Subscribe(ctx, "0xbbb", 3)
	require.NoError(t, err)

	watcher := &recordingWatcher{}
	w := NewWatchWorker(nil, registry, watcher)

	require.NoError(t, w.resync(ctx))
	assert.Len(t, watcher.covered, 3)
}
