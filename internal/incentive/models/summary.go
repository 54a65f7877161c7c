package models

import "slices"

// Summary is the derived standing of one donor.
type Summary struct {
	DonorID       string `json:"donor_id"`
	TotalPoints   int    `json:"total_points"`
	DonationCount int    `json:"donation_count"`
	EntryCount    int    `json:"entry_count"`
	BadgeTier     *Tier  `json:"badge_tier"`
	PrizeTier     *Tier  `json:"prize_tier"`
	NextBadgeTier *Tier  `json:"next_badge_tier,omitempty"`
	NextPrizeTier *Tier  `json:"next_prize_tier,omitempty"`
}

// Summarize folds a donor's entries. Zero entries yield zero points and no tiers.
func Summarize(donorID string, entries []Entry) Summary {
	s := Summary{DonorID: donorID, EntryCount: len(entries)}
	for _, e := range entries {
		s.TotalPoints += e.Points
		if e.Action.CountsAsDonation() {
			s.DonationCount++
		}
	}
	s.BadgeTier = tierPtr(BadgeTierOf(s.DonationCount))
	s.PrizeTier = tierPtr(PrizeTierOf(s.TotalPoints))
	s.NextBadgeTier = tierPtr(NextBadgeTier(s.DonationCount))
	s.NextPrizeTier = tierPtr(NextPrizeTier(s.TotalPoints))
	return s
}

func tierPtr(t Tier, ok bool) *Tier {
	if !ok {
		return nil
	}
	return &t
}

// Standing is a donor's point total together with the sequence of the entry
// whose running total first reached a given minimum.
type Standing struct {
	DonorID            string `json:"donor_id"`
	TotalPoints        int    `json:"total_points"`
	QualifyingSequence int64  `json:"qualifying_sequence,omitempty"`
}

// Standings folds ledger entries, ordered by Sequence, into one standing per donor.
// QualifyingSequence is zero for donors whose total never reached minPoints.
func Standings(entries []Entry, minPoints int) []Standing {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		}
		return 0
	})

	index := make(map[string]int)
	var out []Standing
	for _, e := range sorted {
		i, ok := index[e.DonorID]
		if !ok {
			i = len(out)
			index[e.DonorID] = i
			out = append(out, Standing{DonorID: e.DonorID})
		}
		st := &out[i]
		st.TotalPoints += e.Points
		if st.QualifyingSequence == 0 && st.TotalPoints >= minPoints {
			st.QualifyingSequence = e.Sequence
		}
	}
	return out
}
