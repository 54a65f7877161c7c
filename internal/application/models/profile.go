package models

import (
	"strings"
	"time"

	appointment "donorhub/internal/appointment/models"
	dErrors "donorhub/pkg/domain-errors"
	textutil "donorhub/pkg/platform/strings"
)

const (
	BirthDateLayout  = "2006-01-02"
	NationalIDLength = 16
)

// Address is an Ethiopian administrative address.
type Address struct {
	Region      string `json:"region"`
	Zone        string `json:"zone,omitempty"`
	Woreda      string `json:"woreda,omitempty"`
	Kebele      string `json:"kebele,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
}

// DonorProfile is the editable part of a donor application.
type DonorProfile struct {
	FullName          string                `json:"full_name"`
	Phone             string                `json:"phone"`
	BirthDate         string                `json:"birth_date"`
	Age               int                   `json:"age"`
	Gender            string                `json:"gender,omitempty"`
	MaritalStatus     string                `json:"marital_status,omitempty"`
	NationalID        string                `json:"national_id,omitempty"`
	Address           Address               `json:"address"`
	MedicalConditions []string              `json:"medical_conditions,omitempty"`
	Disability        bool                  `json:"disability"`
	DisabilityType    string                `json:"disability_type,omitempty"`
	Appointment       appointment.Selection `json:"appointment"`
}

// HospitalProfile is the editable part of a hospital application.
type HospitalProfile struct {
	Name          string  `json:"name"`
	ContactDoctor string  `json:"contact_doctor"`
	LicenseName   string  `json:"license_name"`
	LicenseNumber string  `json:"license_number"`
	HospitalType  string  `json:"hospital_type,omitempty"`
	Phone         string  `json:"phone"`
	Address       Address `json:"address"`
}

// Normalize validates the donor profile and derives Age from BirthDate at now.
func (p *DonorProfile) Normalize(now time.Time) error {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if p.Phone == "" {
		return dErrors.New(dErrors.CodeValidation, "phone is required")
	}
	if p.NationalID != "" && !isDigits(p.NationalID, NationalIDLength) {
		return dErrors.New(dErrors.CodeValidation, "national_id must be exactly 16 digits")
	}
	p.MedicalConditions = textutil.NormalizeList(p.MedicalConditions)
	if !p.Disability {
		p.DisabilityType = ""
	}
	age, err := AgeOn(p.BirthDate, now)
	if err != nil {
		return err
	}
	p.Age = age
	return nil
}

func (p *HospitalProfile) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return dErrors.New(dErrors.CodeValidation, "name is required")
	case strings.TrimSpace(p.LicenseNumber) == "":
		return dErrors.New(dErrors.CodeValidation, "license_number is required")
	case strings.TrimSpace(p.Phone) == "":
		return dErrors.New(dErrors.CodeValidation, "phone is required")
	}
	return nil
}

// AgeOn returns completed years between birthDate (YYYY-MM-DD) and now.
// Birth dates in the future are rejected.
func AgeOn(birthDate string, now time.Time) (int, error) {
	born, err := time.Parse(BirthDateLayout, birthDate)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, "birth_date must be YYYY-MM-DD")
	}
	if born.After(now) {
		return 0, dErrors.New(dErrors.CodeValidation, "birth_date is in the future")
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
