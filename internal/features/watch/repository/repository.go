package repository

import "context"

// Entry is one watched address with its subscriber channels. An address with
// no subscribers left is still a valid entry.
type Entry struct {
	Address     string  `json:"address"`
	Subscribers []int64 `json:"subscribers"`
}

// WatchRegistry maps watched addresses to the chat channels subscribed to
// them. Removing the last subscriber keeps the now-empty entry; the watcher
// resync path relies on the full scan.
type WatchRegistry interface {
	// Subscribe adds the channel to the address's subscriber set. changed is
	// false when the channel was already subscribed.
	Subscribe(ctx context.Context, address string, channelID int64) (changed bool, err error)

	// Unsubscribe removes the channel. changed is false when the channel was
	// not subscribed. The entry itself is never deleted.
	Unsubscribe(ctx context.Context, address string, channelID int64) (changed bool, err error)

	// Subscribers returns the channel set for one address.
	Subscribers(ctx context.Context, address string) ([]int64, error)

	// All scans every entry, for watcher resync after a crash.
	All(ctx context.Context) ([]Entry, error)
}
