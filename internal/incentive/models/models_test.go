package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "donorhub/pkg/domain-errors"
)

var ts = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestBasePoints(t *testing.T) {
	assert.Equal(t, 100, ActionDonation.BasePoints())
	assert.Equal(t, 50, ActionEmergencyDonation.BasePoints())
	assert.Equal(t, 30, ActionReferral.BasePoints())
	assert.Equal(t, 100, ActionConsistencyBonus.BasePoints())

	_, err := ParseActionKind("blood_drive")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNewEntryMultiplier(t *testing.T) {
	normal, err := NewEntry("DNR-000001", ActionEmergencyDonation, ts, false)
	require.NoError(t, err)
	assert.Equal(t, 1, normal.Multiplier)
	assert.Equal(t, 50, normal.Points)

	doubled, err := NewEntry("DNR-000001", ActionEmergencyDonation, ts, true)
	require.NoError(t, err)
	assert.Equal(t, 2, doubled.Multiplier)
	assert.Equal(t, 50, doubled.BasePoints)
	assert.Equal(t, 100, doubled.Points)

	_, err = NewEntry("", ActionDonation, ts, false)
	assert.Error(t, err)
	_, err = NewEntry("DNR-000001", ActionDonation, time.Time{}, false)
	assert.Error(t, err)
}

func TestBadgeTierOf(t *testing.T) {
	cases := []struct {
		donations int
		want      string
	}{
		{1, "Bronze"}, {2, "Bronze"}, {3, "Silver"}, {5, "Gold"}, {9, "Gold"}, {10, "Platinum"}, {42, "Platinum"},
	}
	for _, tc := range cases {
		tier, ok := BadgeTierOf(tc.donations)
		require.True(t, ok, tc.donations)
		assert.Equal(t, tc.want, tier.Name, tc.donations)
	}

	_, ok := BadgeTierOf(0)
	assert.False(t, ok, "zero donations has no badge")
}

func TestPrizeTiersStrictlyOrdered(t *testing.T) {
	require.Len(t, PrizeTiers, 9)
	assert.Equal(t, 100, PrizeTiers[0].Threshold)
	assert.Equal(t, 2000, PrizeTiers[len(PrizeTiers)-1].Threshold)
	for i := 1; i < len(PrizeTiers); i++ {
		assert.Greater(t, PrizeTiers[i].Threshold, PrizeTiers[i-1].Threshold)
	}

	_, ok := PrizeTierOf(99)
	assert.False(t, ok)
	tier, ok := PrizeTierOf(1299)
	require.True(t, ok)
	assert.Equal(t, "Guardian", tier.Name)
	tier, ok = PrizeTierOf(5000)
	require.True(t, ok)
	assert.Equal(t, "Legend", tier.Name)

	next, ok := NextPrizeTier(2000)
	assert.False(t, ok, "nothing above Legend: %v", next)
}

func TestSummarizeKeepsTierSystemsApart(t *testing.T) {
	// Ten referrals reach a prize tier but earn no badge.
	var entries []Entry
	for i := range 10 {
		e, err := NewEntry("DNR-000002", ActionReferral, ts.Add(time.Duration(i)*time.Hour), false)
		require.NoError(t, err)
		entries = append(entries, *e)
	}
	s := Summarize("DNR-000002", entries)

	assert.Equal(t, 300, s.TotalPoints)
	assert.Equal(t, 0, s.DonationCount)
	assert.Nil(t, s.BadgeTier)
	require.NotNil(t, s.PrizeTier)
	assert.Equal(t, "Contributor", s.PrizeTier.Name)
	require.NotNil(t, s.NextBadgeTier)
	assert.Equal(t, "Bronze", s.NextBadgeTier.Name)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("DNR-000003", nil)
	assert.Zero(t, s.TotalPoints)
	assert.Nil(t, s.BadgeTier)
	assert.Nil(t, s.PrizeTier)
}

func TestStandingsQualifyingSequence(t *testing.T) {
	entries := []Entry{
		{Sequence: 1, DonorID: "DNR-A", Points: 100},
		{Sequence: 2, DonorID: "DNR-B", Points: 400},
		{Sequence: 3, DonorID: "DNR-A", Points: 100},
		{Sequence: 4, DonorID: "DNR-A", Points: 100},
		{Sequence: 5, DonorID: "DNR-C", Points: 30},
	}

	got := Standings(entries, 300)

	require.Len(t, got, 3)
	assert.Equal(t, Standing{DonorID: "DNR-A", TotalPoints: 300, QualifyingSequence: 4}, got[0])
	assert.Equal(t, Standing{DonorID: "DNR-B", TotalPoints: 400, QualifyingSequence: 2}, got[1])
	assert.Equal(t, Standing{DonorID: "DNR-C", TotalPoints: 30}, got[2])
}
