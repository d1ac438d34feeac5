package audit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRecorder(t *testing.T) (*Recorder, *miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRecorder(client, zap.NewNop()), mr, client
}

func TestRecorder_AppendsEvent(t *testing.T) {
	recorder, _, client := setupRecorder(t)
	ctx := context.Background()

	recorder.Record(ctx, EventImportCommitted, "admin-1", map[string]string{
		"job_id":  "abc",
		"created": "3",
	})

	entries, err := client.XRange(ctx, StreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, EventImportCommitted, entries[0].Values["event"])
	assert.Equal(t, "admin-1", entries[0].Values["actor"])
	assert.Equal(t, "abc", entries[0].Values["job_id"])
	assert.Equal(t, "3", entries[0].Values["created"])
	assert.NotEmpty(t, entries[0].Values["at"])
}

func TestRecorder_SurvivesRedisOutage(t *testing.T) {
	recorder, mr, _ := setupRecorder(t)
	mr.Close()

	// Must not panic or block past the write timeout.
	assert.NotPanics(t, func() {
		recorder.Record(context.Background(), EventImportFailed, "admin-1", nil)
	})
}

func TestRecorder_MultipleEventsKeepOrder(t *testing.T) {
	recorder, _, client := setupRecorder(t)
	ctx := context.Background()

	recorder.Record(ctx, EventImportStaged, "admin-1", map[string]string{"job_id": "j1"})
	recorder.Record(ctx, EventImportCommitted, "admin-1", map[string]string{"job_id": "j1"})
	recorder.Record(ctx, EventImportUndone, "admin-2", map[string]string{"job_id": "j1"})

	entries, err := client.XRange(ctx, StreamKey, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, EventImportStaged, entries[0].Values["event"])
	assert.Equal(t, EventImportCommitted, entries[1].Values["event"])
	assert.Equal(t, EventImportUndone, entries[2].Values["event"])
}
