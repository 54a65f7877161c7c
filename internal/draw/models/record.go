package models

import (
	"time"

	id "donorhub/pkg/domain"
)

// Entrant is one donor entered into a draw under their lottery identifier.
type Entrant struct {
	DonorID           string `json:"donor_id"`
	LotteryIdentifier string `json:"lottery_identifier,omitempty"`
}

// Record is a completed draw. Entrants keep eligibility order.
type Record struct {
	ID              id.DrawID `json:"id"`
	WindowStartedAt time.Time `json:"window_started_at"`
	DrawnAt         time.Time `json:"drawn_at"`
	MinPoints       int       `json:"min_points"`
	Entrants        []Entrant `json:"entrants"`
}

// Status is the on-demand view of the current window.
type Status struct {
	RemainingSeconds int64     `json:"remaining_seconds"`
	Due              bool      `json:"due"`
	WindowStartedAt  time.Time `json:"window_started_at"`
	WindowEndsAt     time.Time `json:"window_ends_at"`
	MinPoints        int       `json:"min_points"`
	EligibleDonorIDs []string  `json:"eligible_donor_ids"`
}
