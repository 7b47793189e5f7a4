package chatmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatContext_Basics(t *testing.T) {
	t.Parallel()
	c := NewChatContext("rid")
	require.NotNil(t, c)
	assert.Equal(t, "rid", c.GetRequestID())
}

func TestNewChatContext_DefaultID(t *testing.T) {
	t.Parallel()
	c := NewChatContext("")
	require.NotNil(t, c)
	assert.NotEmpty(t, c.GetRequestID())
}

func TestContextPlumbing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Nil(t, GetChatContext(ctx))
	assert.Empty(t, GetRequestID(ctx))

	c := NewChatContext("x")
	ctx = WithChatContext(ctx, c)
	assert.Equal(t, c, GetChatContext(ctx))
	assert.Equal(t, "x", GetRequestID(ctx))

	// existing context is preserved
	ctx2, c2 := EnsureChatContext(ctx)
	assert.Equal(t, c, c2)
	assert.Equal(t, ctx, ctx2)

	ctx3, c3 := EnsureChatContext(context.Background())
	require.NotNil(t, c3)
	assert.NotEmpty(t, c3.GetRequestID())
	assert.Equal(t, c3.GetRequestID(), GetRequestID(ctx3))
}

func TestNewRequestID_Unique(t *testing.T) {
	id1 := NewRequestID()
	id2 := NewRequestID()
	assert.NotEqual(t, id1, id2)
}
