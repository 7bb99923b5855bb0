package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: RoleSystem, Content: "a"}, NewSystemMessage("a"))
	assert.Equal(t, Message{Role: RoleUser, Content: "b"}, NewUserMessage("b"))
	assert.Equal(t, Message{Role: RoleAssistant, Content: "c"}, NewAssistantMessage("c"))
}

func TestBaseClientDefaults(t *testing.T) {
	b := NewBaseClient("anthropic", "claude-sonnet-4-5", 0)
	assert.Equal(t, "anthropic", b.ProviderName())
	assert.Equal(t, "claude-sonnet-4-5", b.ModelID())

	ctx, cancel := b.CallContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultCallTimeout), deadline, time.Second)
}

func TestBaseClientCustomTimeout(t *testing.T) {
	b := NewBaseClient("anthropic", "m", 5*time.Second)
	ctx, cancel := b.CallContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}
