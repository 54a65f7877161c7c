package models

import (
	"strings"
	"time"

	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
)

// Application is the aggregate root for a donor or hospital registration.
//
// Invariants:
//   - Identifier is issued at registration and never changes
//   - Status starts pending and changes only through an approval decision
//   - Approved and rejected are terminal
//   - A rejection always carries a reason
//   - Edits replace profile fields and never touch Status
type Application struct {
	ID                id.ApplicationID `json:"id"`
	Kind              Kind             `json:"kind"`
	Status            Status           `json:"status"`
	Identifier        string           `json:"identifier"`
	LotteryIdentifier string           `json:"lottery_identifier,omitempty"`
	Email             string           `json:"email"`
	PasswordHash      string           `json:"-"`
	BloodType         id.BloodType     `json:"blood_type,omitempty"`
	Region            string           `json:"region,omitempty"`
	Donor             *DonorProfile    `json:"donor,omitempty"`
	Hospital          *HospitalProfile `json:"hospital,omitempty"`
	DecidedBy         id.ActorID       `json:"decided_by,omitzero"`
	DecidedAt         *time.Time       `json:"decided_at,omitempty"`
	DecisionReason    string           `json:"decision_reason,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewDonorApplication builds a pending donor application. profile must already be normalized.
func NewDonorApplication(appID id.ApplicationID, identifier, lottery, email, passwordHash string,
	bloodType id.BloodType, profile DonorProfile, now time.Time) (*Application, error) {
	if identifier == "" || lottery == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "donor application requires donor and lottery identifiers")
	}
	app, err := newApplication(appID, KindDonor, identifier, email, passwordHash, profile.Address.Region, now)
	if err != nil {
		return nil, err
	}
	app.LotteryIdentifier = lottery
	app.BloodType = bloodType
	app.Donor = &profile
	return app, nil
}

// NewHospitalApplication builds a pending hospital application.
func NewHospitalApplication(appID id.ApplicationID, identifier, email, passwordHash string,
	profile HospitalProfile, now time.Time) (*Application, error) {
	if identifier == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "hospital application requires an identifier")
	}
	app, err := newApplication(appID, KindHospital, identifier, email, passwordHash, profile.Address.Region, now)
	if err != nil {
		return nil, err
	}
	app.Hospital = &profile
	return app, nil
}

func newApplication(appID id.ApplicationID, kind Kind, identifier, email, passwordHash, region string, now time.Time) (*Application, error) {
	if appID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application ID is required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return &Application{
		ID:           appID,
		Kind:         kind,
		Status:       StatusPending,
		Identifier:   identifier,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Region:       region,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Application) IsApproved() bool {
	return a.Status == StatusApproved
}

// CanApprove checks the pending -> approved transition.
// Use with ApplyApproval in Execute callbacks.
func (a *Application) CanApprove(actorID id.ActorID) error {
	if !a.Status.CanTransitionTo(StatusApproved) {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "application is already "+a.Status.String())
	}
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	return nil
}

func (a *Application) ApplyApproval(actorID id.ActorID, now time.Time) {
	a.Status = StatusApproved
	a.DecidedBy = actorID
	a.DecidedAt = &now
	a.DecisionReason = ""
	a.UpdatedAt = now
}

// CanReject checks the pending -> rejected transition. A reason is mandatory.
// A decided application reports the state error before any input error.
func (a *Application) CanReject(actorID id.ActorID, reason string) error {
	if !a.Status.CanTransitionTo(StatusRejected) {
		return dErrors.New(dErrors.CodeInvalidStateTransition, "application is already "+a.Status.String())
	}
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	if strings.TrimSpace(reason) == "" {
		return dErrors.New(dErrors.CodeValidation, "a rejection reason is required")
	}
	return nil
}

func (a *Application) ApplyRejection(actorID id.ActorID, reason string, now time.Time) {
	a.Status = StatusRejected
	a.DecidedBy = actorID
	a.DecidedAt = &now
	a.DecisionReason = strings.TrimSpace(reason)
	a.UpdatedAt = now
}

// ApplyDonorEdit replaces the donor profile and blood type. Status is untouched.
func (a *Application) ApplyDonorEdit(profile DonorProfile, bloodType id.BloodType, now time.Time) {
	a.Donor = &profile
	if bloodType != "" {
		a.BloodType = bloodType
	}
	a.Region = profile.Address.Region
	a.UpdatedAt = now
}

// ApplyHospitalEdit replaces the hospital profile. Status is untouched.
func (a *Application) ApplyHospitalEdit(profile HospitalProfile, now time.Time) {
	a.Hospital = &profile
	a.Region = profile.Address.Region
	a.UpdatedAt = now
}

// ListFilter narrows directory and queue listings. Zero fields match everything.
type ListFilter struct {
	Kind      Kind
	Status    Status
	BloodType id.BloodType
	Region    string
}

func (f ListFilter) Matches(a *Application) bool {
	switch {
	case f.Kind != "" && a.Kind != f.Kind:
		return false
	case f.Status != "" && a.Status != f.Status:
		return false
	case f.BloodType != "" && a.BloodType != f.BloodType:
		return false
	case f.Region != "" && !strings.EqualFold(a.Region, f.Region):
		return false
	}
	return true
}
