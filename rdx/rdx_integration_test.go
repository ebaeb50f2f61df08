//go:build integration

package rdx_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/rdx"
	"github.com/surafelx/portfolio26/testutil"
)

func TestCacheAndBuffer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	client := testutil.NewRedis(t)

	cache := rdx.NewCache(client, time.Minute, nil, nil)
	var got []string
	assert.False(t, cache.GetJSON(ctx, "articles:list", &got))
	cache.SetJSON(ctx, "articles:list", []string{"a", "b"})
	require.True(t, cache.GetJSON(ctx, "articles:list", &got))
	assert.Equal(t, []string{"a", "b"}, got)
	cache.Del(ctx, "articles:list")
	assert.False(t, cache.GetJSON(ctx, "articles:list", &got))

	buf := rdx.NewViewBuffer(client)
	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, buf.Push(ctx, models.ViewEvent{ID: id, Subject: models.SubjectNote, SubjectID: "n"}))
	}
	first, skipped, err := buf.Drain(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, first, 2)
	assert.Equal(t, "v1", first[0].ID)

	require.NoError(t, buf.Requeue(ctx, first))
	all, _, err := buf.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2", "v3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	empty, _, err := buf.Drain(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
