package service

import (
	"context"

	"github.com/google/uuid"

	"tigon-bot-backend/internal/common/logger"
	"tigon-bot-backend/internal/features/watch/bus"
	"tigon-bot-backend/internal/features/watch/repository"
)

// Service keeps the watch registry and the chain watcher in step:
// persist first, publish after. Publication is best-effort from the caller's
// point of view; the watcher reconciles via Resync after a missed event.
type Service struct {
	registry repository.WatchRegistry
	feed     bus.Publisher
}

func New(registry repository.WatchRegistry, feed bus.Publisher) *Service {
	return &Service{registry: registry, feed: feed}
}

func (s *Service) Subscribe(ctx context.Context, address string, channelID int64) error {
	changed, err := s.registry.Subscribe(ctx, address, channelID)
	if err != nil {
		return err
	}
	if changed {
		s.publish(ctx, address, channelID, bus.ChangeAdd)
	}
	return nil
}

func (s *Service) Unsubscribe(ctx context.Context, address string, channelID int64) error {
	changed, err := s.registry.Unsubscribe(ctx, address, channelID)
	if err != nil {
		return err
	}
	if changed {
		s.publish(ctx, address, channelID, bus.ChangeRemove)
	}
	return nil
}

func (s *Service) Subscribers(ctx context.Context, address string) ([]int64, error) {
	return s.registry.Subscribers(ctx, address)
}

// Entries exposes the full registry scan used by watcher resync.
func (s *Service) Entries(ctx context.Context) ([]repository.Entry, error) {
	return s.registry.All(ctx)
}

func (s *Service) publish(ctx context.Context, address string, channelID int64, t bus.ChangeType) {
	ev := bus.ChangeEvent{
		EventID:   uuid.NewString(),
		Address:   address,
		ChannelID: channelID,
		Type:      t,
	}
	if err := s.feed.Publish(ctx, ev); err != nil {
		// The registry write already succeeded; the watcher picks the change
		// up on its next resync scan.
		logger.Error().Err(err).
			Str("address", address).
			Int64("channel_id", channelID).
			Str("type", string(t)).
			Msg("Failed to publish watch change")
	}
}
