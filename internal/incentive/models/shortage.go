package models

import (
	"time"

	id "donorhub/pkg/domain"
)

// ShortageFlag marks a blood type whose actions earn the shortage multiplier.
type ShortageFlag struct {
	BloodType id.BloodType `json:"blood_type"`
	FlaggedBy id.ActorID   `json:"flagged_by,omitzero"`
	FlaggedAt time.Time    `json:"flagged_at"`
}

// RecordRequest is one point-earning action to append.
type RecordRequest struct {
	DonorID string
	Action  ActionKind
	// Timestamp defaults to the request time when zero.
	Timestamp time.Time
	// ShortageFlag reports an ongoing shortage of the built-in rare types (O-, AB-).
	ShortageFlag bool
}
