package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tigon-bot-backend/internal/features/watch/repository"
)

type watchRegistry struct {
	mu      sync.Mutex
	entries map[string]map[int64]bool
}

func NewWatchRegistry() repository.WatchRegistry {
	return &watchRegistry{entries: make(map[string]map[int64]bool)}
}

func (r *watchRegistry) Subscribe(ctx context.Context, address string, channelID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr := strings.ToLower(address)
	subs, ok := r.entries[addr]
	if !ok {
		subs = make(map[int64]bool)
		r.entries[addr] = subs
	}
	if subs[channelID] {
		return false, nil
	}
	subs[channelID] = true
	return true, nil
}

func (r *watchRegistry) Unsubscribe(ctx context.Context, address string, channelID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr := strings.ToLower(address)
	subs, ok := r.entries[addr]
	if !ok {
		// never watched; do not register the address
		return false, nil
	}
	if !subs[channelID] {
		return false, nil
	}
	delete(subs, channelID)
	return true, nil
}

func (r *watchRegistry) Subscribers(ctx context.Context, address string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return channelList(r.entries[strings.ToLower(address)]), nil
}

func (r *watchRegistry) All(ctx context.Context) ([]repository.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]repository.Entry, 0, len(r.entries))
	for addr, subs := range r.entries {
		entries = append(entries, repository.Entry{Address: addr, Subscribers: channelList(subs)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	return entries, nil
}

func channelList(subs map[int64]bool) []int64 {
	if subs == nil {
		return nil
	}
	out := make([]int64, 0, len(subs))
	for ch := range subs {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
