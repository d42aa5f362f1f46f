package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:42:name", UserKey(42))
}

func TestNilClientIsAMiss(t *testing.T) {
	c := NewService(nil)
	ctx := context.Background()

	assert.False(t, c.IsAvailable())
	assert.Error(t, c.Ping(ctx))

	_, err := c.GetUserName(ctx, 1)
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.SetUserName(ctx, 1, "Alice"))
	assert.NoError(t, c.Delete(ctx, UserKey(1)))
}
