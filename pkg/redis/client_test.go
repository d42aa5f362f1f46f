package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsAddr(t *testing.T) {
	assert.Equal(t, "cache.internal:6380", Options{Host: "cache.internal", Port: 6380}.Addr())
}

func TestNewClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := NewClient(ctx, Options{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
	assert.Nil(t, client)
}
