package chatmodel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatContext_Basics(t *testing.T) {
	t.Parallel()
	c := NewChatContext("cid")
	require.NotNil(t, c)
	assert.Equal(t, "cid", c.GetChatID())
	// RunID present and not empty
	assert.NotEmpty(t, c.RunID())

	// Metadata
	val, ok := c.GetMetadata("not-found")
	assert.Nil(t, val)
	assert.False(t, ok)
	c.SetMetadata("foo", 1)
	v, ok := c.GetMetadata("foo")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestNewChatContext_DefaultIDs(t *testing.T) {
	t.Parallel()
	c := NewChatContext("")
	require.NotNil(t, c)
	assert.NotEmpty(t, c.GetChatID())
	assert.NotEmpty(t, c.RunID())
}

func TestContextPlumbing(t *testing.T) {
	t.Parallel()
	c := NewChatContext("y")
	ctx := context.Background()
	ctx = WithChatContext(ctx, c)
	got := GetChatContext(ctx)
	assert.Equal(t, c, got)
	assert.Equal(t, "y", GetChatID(ctx))

	// Context without a chat context
	assert.Nil(t, GetChatContext(context.Background()))
	assert.Empty(t, GetChatID(context.Background()))
}

func TestNewChatID_Unique(t *testing.T) {
	id1 := NewChatID()
	id2 := NewChatID()
	assert.NotEqual(t, id1, id2)
}
