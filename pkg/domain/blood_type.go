package domain

import (
	"strings"

	dErrors "donorhub/pkg/domain-errors"
)

// BloodType is an ABO/Rh group such as "O-" or "AB+".
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

var bloodTypes = map[BloodType]struct{}{
	BloodTypeAPos: {}, BloodTypeANeg: {},
	BloodTypeBPos: {}, BloodTypeBNeg: {},
	BloodTypeABPos: {}, BloodTypeABNeg: {},
	BloodTypeOPos: {}, BloodTypeONeg: {},
}

// ParseBloodType normalizes case and whitespace and rejects unknown groups.
func ParseBloodType(s string) (BloodType, error) {
	bt := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := bloodTypes[bt]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown blood type")
	}
	return bt, nil
}

// IsRare reports whether the type is one of the built-in rare groups whose
// shortages can be flagged per donation without an admin board entry.
func (b BloodType) IsRare() bool {
	return b == BloodTypeONeg || b == BloodTypeABNeg
}

func (b BloodType) String() string { return string(b) }
