package models

import dErrors "donorhub/pkg/domain-errors"

// Kind distinguishes donor and hospital applications.
type Kind string

const (
	KindDonor    Kind = "donor"
	KindHospital Kind = "hospital"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDonor, KindHospital:
		return k, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "kind must be donor or hospital")
}

func (k Kind) String() string { return string(k) }

// Status is the approval state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown application status")
}

// CanTransitionTo reports whether the approval machine allows from -> to.
// Only pending applications move, and only to a decision.
func (s Status) CanTransitionTo(to Status) bool {
	return s == StatusPending && (to == StatusApproved || to == StatusRejected)
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) String() string { return string(s) }

// Decision is the staff verdict submitted for a pending application.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "decision must be approve or reject")
}
