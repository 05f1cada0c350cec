package ristretto

import (
	"context"
	"testing"
	"time"

	"github.com/anoixa/snapi/cache/types"
	"github.com/stretchr/testify/assert"
)

func setupCache(t *testing.T) *Ristretto {
	c, err := NewRistretto(DefaultConfig())
	assert.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

// --- 测试基本读写 ---

func TestRistretto_SetGet(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	type session struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}

	assert.NoError(t, c.Set(ctx, "session:user:1", session{UserID: 1, Username: "alice"}, time.Minute))

	var got session
	assert.NoError(t, c.Get(ctx, "session:user:1", &got))
	assert.Equal(t, uint(1), got.UserID)
	assert.Equal(t, "alice", got.Username)
}

func TestRistretto_Miss(t *testing.T) {
	c := setupCache(t)

	var dest string
	err := c.Get(context.Background(), "absent", &dest)
	assert.ErrorIs(t, err, types.ErrCacheMiss)
}

func TestRistretto_Delete(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "gone", "value", time.Minute))
	assert.NoError(t, c.Delete(ctx, "gone"))

	var dest string
	assert.ErrorIs(t, c.Get(ctx, "gone", &dest), types.ErrCacheMiss)
}

func TestRistretto_Exists(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	exists, err := c.Exists(ctx, "probe")
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, c.Set(ctx, "probe", 1, time.Minute))
	exists, err = c.Exists(ctx, "probe")
	assert.NoError(t, err)
	assert.True(t, exists)
}
