package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tigon-bot-backend/internal/common/errors"
)

func TestPendingReplies_ResolveConsumesOnce(t *testing.T) {
	p := NewPendingReplies(time.Minute)

	called := 0
	err := p.Register(1, 100, func(ctx context.Context, ev ReplyEvent) { called++ })
	require.NoError(t, err)

	ev := ReplyEvent{ChatID: 1, PromptMessageID: 100, UserID: 1, Text: "0.02"}
	fn, ok := p.Resolve(ev)
	require.True(t, ok)
	fn(context.Background(), ev)
	assert.Equal(t, 1, called)

	_, ok = p.Resolve(ev)
	assert.False(t, ok)
}

func TestPendingReplies_UnmatchedReply(t *testing.T) {
	p := NewPendingReplies(time.Minute)

	_, ok := p.Resolve(ReplyEvent{ChatID: 1, PromptMessageID: 999})
	assert.False(t, ok)
}

func TestPendingReplies_OverlapRejected(t *testing.T) {
	p := NewPendingReplies(time.Minute)
	noop := func(ctx context.Context, ev ReplyEvent) {}

	require.NoError(t, p.Register(1, 100, noop))

	err := p.Register(1, 100, noop)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodePromptPending))

	// different message in the same chat is fine
	assert.NoError(t, p.Register(1, 101, noop))
	// same message in a different chat is fine
	assert.NoError(t, p.Register(2, 100, noop))
}

func TestPendingReplies_ExpiredEntryBehavesAsAbsent(t *testing.T) {
	p := NewPendingReplies(time.Minute)
	base := time.Now()
	p.now = func() time.Time { return base }

	noop := func(ctx context.Context, ev ReplyEvent) {}
	require.NoError(t, p.Register(1, 100, noop))

	p.now = func() time.Time { return base.Add(2 * time.Minute) }

	_, ok := p.Resolve(ReplyEvent{ChatID: 1, PromptMessageID: 100})
	assert.False(t, ok)

	// expired slot can be re-registered
	assert.NoError(t, p.Register(1, 100, noop))
}

func TestPendingReplies_SweepDropsOnlyExpired(t *testing.T) {
	p := NewPendingReplies(time.Minute)
	base := time.Now()
	p.now = func() time.Time { return base }

	noop := func(ctx context.Context, ev ReplyEvent) {}
	require.NoError(t, p.Register(1, 100, noop))

	p.now = func() time.Time { return base.Add(30 * time.Second) }
	require.NoError(t, p.Register(1, 200, noop))

	p.now = func() time.Time { return base.Add(70 * time.Second) }
	p.Sweep()

	_, ok := p.Resolve(ReplyEvent{ChatID: 1, PromptMessageID: 100})
	assert.False(t, ok)
	_, ok = p.Resolve(ReplyEvent{ChatID: 1, PromptMessageID: 200})
	assert.True(t, ok)
}
