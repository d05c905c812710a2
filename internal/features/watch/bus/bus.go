package bus

import "context"

// Stream is the named topic the chain watcher consumes coverage changes from.
const Stream = "watch:events"

// ChangeType tags a coverage change.
type ChangeType string

const (
	ChangeAdd    ChangeType = "add"
	ChangeRemove ChangeType = "remove"
)

// ChangeEvent tells the chain watcher to start or stop covering an address
// for a channel. EventID is carried so the consumer can de-duplicate the
// at-least-once delivery.
type ChangeEvent struct {
	EventID   string     `json:"event_id"`
	Address   string     `json:"address"`
	ChannelID int64      `json:"channel_id"`
	Type      ChangeType `json:"type"`
}

// Publisher is the change feed. Publish is called only after the registry
// write is durable; a crash in between leaves the watcher stale until its
// next full-scan resync.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}
