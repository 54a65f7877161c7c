package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorhub/internal/draw/models"
	incentive "donorhub/internal/incentive/models"
)

type staticStandings []incentive.Entry

func (s staticStandings) Standings(_ context.Context, minPoints int) ([]incentive.Standing, error) {
	return incentive.Standings(s, minPoints), nil
}

func TestLedgerAdapterFeedsEligibility(t *testing.T) {
	now := time.Now()
	var entries staticStandings
	for i, donor := range []string{"DNR-000002", "DNR-000001", "DNR-000002", "DNR-000001"} {
		e, err := incentive.NewEntry(donor, incentive.ActionDonation, now, false)
		require.NoError(t, err)
		e.Sequence = int64(i + 1)
		entries = append(entries, *e)
	}

	candidates, err := NewLedgerAdapter(entries).Candidates(context.Background(), 200)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// DNR-000002 reaches 200 at sequence 3, DNR-000001 at sequence 4.
	assert.Equal(t, []string{"DNR-000002", "DNR-000001"}, models.SelectEligible(candidates, 200))
}
