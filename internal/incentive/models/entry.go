package models

import (
	"time"

	dErrors "donorhub/pkg/domain-errors"
)

// Entry is one immutable ledger line.
//
// Invariants:
//   - Points == BasePoints * Multiplier
//   - Multiplier is 1 or ShortageMultiplier, fixed at record time
//   - Sequence is assigned by the store and increases with append order
type Entry struct {
	Sequence   int64      `json:"sequence"`
	DonorID    string     `json:"donor_id"`
	Action     ActionKind `json:"action"`
	BasePoints int        `json:"base_points"`
	Multiplier int        `json:"multiplier"`
	Points     int        `json:"points"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewEntry prices action for donorID. Sequence is left for the store.
func NewEntry(donorID string, action ActionKind, timestamp time.Time, shortage bool) (*Entry, error) {
	if donorID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ledger entry requires a donor")
	}
	base := action.BasePoints()
	if base == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ledger entry requires a known action")
	}
	if timestamp.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "ledger entry requires a timestamp")
	}
	multiplier := 1
	if shortage {
		multiplier = ShortageMultiplier
	}
	return &Entry{
		DonorID:    donorID,
		Action:     action,
		BasePoints: base,
		Multiplier: multiplier,
		Points:     base * multiplier,
		Timestamp:  timestamp,
	}, nil
}
