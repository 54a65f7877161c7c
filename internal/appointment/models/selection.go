package models

import (
	"time"

	dErrors "donorhub/pkg/domain-errors"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Selection is a donor's appointment choice.
//
// Invariants:
//   - Facility, when set, is on Region's facility list
//   - Date and Time, when set, parse with DateLayout and TimeLayout
type Selection struct {
	Region   Region   `json:"region"`
	Facility Facility `json:"facility,omitempty"`
	Date     string   `json:"date,omitempty"`
	Time     string   `json:"time,omitempty"`
}

// HasFacility reports whether a facility has been chosen.
func (s Selection) HasFacility() bool {
	return s.Facility != ""
}

// ValidateSchedule checks the optional date and time fields.
func (s Selection) ValidateSchedule() error {
	if s.Date != "" {
		if _, err := time.Parse(DateLayout, s.Date); err != nil {
			return dErrors.New(dErrors.CodeValidation, "appointment date must be YYYY-MM-DD")
		}
	}
	if s.Time != "" {
		if _, err := time.Parse(TimeLayout, s.Time); err != nil {
			return dErrors.New(dErrors.CodeValidation, "appointment time must be HH:MM")
		}
	}
	return nil
}
