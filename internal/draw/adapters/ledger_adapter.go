package adapters

import (
	"context"

	"donorhub/internal/draw/models"
	incentive "donorhub/internal/incentive/models"
)

// StandingsSource is implemented by the incentive ledger service.
type StandingsSource interface {
	Standings(ctx context.Context, minPoints int) ([]incentive.Standing, error)
}

// LedgerAdapter adapts ledger standings to draw candidates.
type LedgerAdapter struct {
	source StandingsSource
}

func NewLedgerAdapter(source StandingsSource) *LedgerAdapter {
	return &LedgerAdapter{source: source}
}

func (a *LedgerAdapter) Candidates(ctx context.Context, minPoints int) ([]models.Candidate, error) {
	standings, err := a.source.Standings(ctx, minPoints)
	if err != nil {
		return nil, err
	}
	out := make([]models.Candidate, len(standings))
	for i, st := range standings {
		out[i] = models.Candidate{
			DonorID:            st.DonorID,
			TotalPoints:        st.TotalPoints,
			QualifyingSequence: st.QualifyingSequence,
		}
	}
	return out, nil
}
