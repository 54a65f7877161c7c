package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/audit/store/memory"
	"donorhub/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Subject: "DNR-000001",
		Action:  string(audit.EventDonationRecorded),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "DNR-000001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventDonationRecorded), events[0].Action)
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.False(t, events[0].ID.IsNil())
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{
			Subject: "HSP-000009",
			Action:  string(audit.EventApplicationApproved),
		})
		require.NoError(t, err)
	}

	pub.Close()
	pub.Close()

	events, err := store.ListBySubject(context.Background(), "HSP-000009")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestPublisher_BufferFullDoesNotPanic(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{Subject: "O-", Action: string(audit.EventShortageFlagged)})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_Timestamps(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "a", Action: "x"}))
	after := time.Now()

	custom := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "b", Action: "x", Timestamp: custom}))

	first, err := pub.List(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].Timestamp.Before(before))
	assert.False(t, first[0].Timestamp.After(after))

	second, err := pub.List(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, custom, second[0].Timestamp)
}

func TestPublisher_EnrichesFromRequestContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.1", "curl/8.0", "bot")
	require.NoError(t, pub.Emit(ctx, audit.Event{Subject: "DNR-000002", Action: string(audit.EventLoginFailed)}))

	events, err := store.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Equal(t, "bot", events[0].ClientAgent)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestInMemoryListRecentNewestFirst(t *testing.T) {
	store := memory.NewInMemoryStore()
	for _, action := range []string{"one", "two", "three"} {
		require.NoError(t, store.Append(context.Background(), audit.Event{Action: action}))
	}
	events, err := store.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "three", events[0].Action)
	assert.Equal(t, "two", events[1].Action)
}
