package bot

import (
	"context"
	"sync"
	"time"

	apperrors "tigon-bot-backend/internal/common/errors"
)

// Continuation resumes a conversation when the awaited reply arrives.
type Continuation func(ctx context.Context, ev ReplyEvent)

type pendingKey struct {
	chatID    int64
	messageID int64
}

type pendingEntry struct {
	fn      Continuation
	expires time.Time
}

// PendingReplies correlates (chatID, promptMessageID) to the continuation
// waiting for the reply. At most one live entry per key: registering over a
// live entry is rejected rather than silently clobbering the earlier
// continuation. Entries expire; expired entries behave as absent.
type PendingReplies struct {
	mu      sync.Mutex
	entries map[pendingKey]pendingEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewPendingReplies(ttl time.Duration) *PendingReplies {
	return &PendingReplies{
		entries: make(map[pendingKey]pendingEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Register binds the continuation to the prompt message.
func (p *PendingReplies) Register(chatID, messageID int64, fn Continuation) error {
	key := pendingKey{chatID: chatID, messageID: messageID}
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[key]; ok && now.Before(e.expires) {
		return apperrors.New(apperrors.ErrCodePromptPending, "A prompt is already awaiting a reply to this message")
	}
	p.entries[key] = pendingEntry{fn: fn, expires: now.Add(p.ttl)}
	return nil
}

// Resolve consumes the continuation for the reply's key. The first matching
// reply wins; any later reply to the same prompt finds nothing.
func (p *PendingReplies) Resolve(ev ReplyEvent) (Continuation, bool) {
	key := pendingKey{chatID: ev.ChatID, messageID: ev.PromptMessageID}

	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	delete(p.entries, key)
	if p.now().After(e.expires) {
		return nil, false
	}
	return e.fn, true
}

// Sweep drops expired entries. Run periodically so abandoned prompts do not
// accumulate.
func (p *PendingReplies) Sweep() {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	for key, e := range p.entries {
		if now.After(e.expires) {
			delete(p.entries, key)
		}
	}
}

// StartSweeper sweeps on an interval until the context is done.
func (p *PendingReplies) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Sweep()
			}
		}
	}()
}
