package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorhub/internal/incentive/models"
)

func TestInMemoryAppendAssignsSequence(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	now := time.Now()

	for i, donor := range []string{"DNR-000001", "DNR-000002", "DNR-000001"} {
		entry, err := models.NewEntry(donor, models.ActionDonation, now, false)
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, entry))
		assert.Equal(t, int64(i+1), entry.Sequence)
	}

	first, err := store.ListByDonor(ctx, "DNR-000001")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(1), first[0].Sequence)
	assert.Equal(t, int64(3), first[1].Sequence)

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := store.ListByDonor(ctx, "DNR-999999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryConcurrentAppendsHaveDistinctSequences(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := models.NewEntry("DNR-000001", models.ActionReferral, time.Now(), false)
			if err == nil {
				_ = store.Append(ctx, entry)
			}
		}()
	}
	wg.Wait()

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	seen := make(map[int64]bool, len(all))
	for _, e := range all {
		assert.False(t, seen[e.Sequence], "duplicate sequence %d", e.Sequence)
		seen[e.Sequence] = true
	}
	assert.Len(t, seen, 50)
}
