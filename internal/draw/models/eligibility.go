package models

import (
	"cmp"
	"slices"
)

// Candidate is a donor's standing as the ledger reports it. QualifyingSequence
// is the ledger sequence of the action whose running total first reached the
// draw minimum, or zero when it never did.
type Candidate struct {
	DonorID            string
	TotalPoints        int
	QualifyingSequence int64
}

// SelectEligible returns the donors with TotalPoints >= minPoints, ordered by
// the sequence of their qualifying action and then by donor ID. Identical
// input always yields identical output.
func SelectEligible(candidates []Candidate, minPoints int) []string {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.TotalPoints >= minPoints {
			eligible = append(eligible, c)
		}
	}
	slices.SortFunc(eligible, func(a, b Candidate) int {
		if c := cmp.Compare(a.QualifyingSequence, b.QualifyingSequence); c != 0 {
			return c
		}
		return cmp.Compare(a.DonorID, b.DonorID)
	})

	ids := make([]string, len(eligible))
	for i, c := range eligible {
		ids[i] = c.DonorID
	}
	return ids
}
