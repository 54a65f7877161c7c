package models

import (
	"time"

	id "donorhub/pkg/domain"
)

// DonorRegistration is the self-service donor sign-up form.
type DonorRegistration struct {
	Email                string       `json:"email"`
	Password             string       `json:"password"`
	PasswordConfirmation string       `json:"password_confirmation"`
	BloodType            string       `json:"blood_type"`
	Profile              DonorProfile `json:"profile"`
}

// HospitalRegistration is the hospital sign-up form.
type HospitalRegistration struct {
	Email                string          `json:"email"`
	Password             string          `json:"password"`
	PasswordConfirmation string          `json:"password_confirmation"`
	Profile              HospitalProfile `json:"profile"`
}

// Edit replaces the profile of the application's kind. BloodType is optional
// and applies to donors only.
type Edit struct {
	Donor     *DonorProfile    `json:"donor,omitempty"`
	Hospital  *HospitalProfile `json:"hospital,omitempty"`
	BloodType string           `json:"blood_type,omitempty"`
}

type RegistrationResult struct {
	ApplicationID     id.ApplicationID `json:"application_id"`
	Identifier        string           `json:"identifier"`
	LotteryIdentifier string           `json:"lottery_identifier,omitempty"`
	Status            Status           `json:"status"`
}

type EditResult struct {
	Application     *Application `json:"application"`
	FacilityCleared bool         `json:"facility_cleared,omitempty"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Subject   string    `json:"subject"`
	Kind      Kind      `json:"kind"`
}
