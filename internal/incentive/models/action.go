package models

import (
	dErrors "donorhub/pkg/domain-errors"
)

// ActionKind is a point-earning action.
type ActionKind string

const (
	ActionDonation          ActionKind = "donation"
	ActionEmergencyDonation ActionKind = "emergency_donation"
	ActionReferral          ActionKind = "referral"
	ActionConsistencyBonus  ActionKind = "consistency_bonus"
)

var basePoints = map[ActionKind]int{
	ActionDonation:          100,
	ActionEmergencyDonation: 50,
	ActionReferral:          30,
	ActionConsistencyBonus:  100,
}

// ShortageMultiplier is applied to actions recorded during a flagged shortage.
const ShortageMultiplier = 2

func ParseActionKind(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if _, ok := basePoints[kind]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown action kind")
	}
	return kind, nil
}

// BasePoints is the fixed value of the action before any multiplier.
func (a ActionKind) BasePoints() int {
	return basePoints[a]
}

// CountsAsDonation reports whether the action is a blood donation for badge purposes.
func (a ActionKind) CountsAsDonation() bool {
	return a == ActionDonation || a == ActionEmergencyDonation
}

func (a ActionKind) String() string { return string(a) }
