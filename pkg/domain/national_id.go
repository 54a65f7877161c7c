package domain

import (
	"strings"

	dErrors "donorhub/pkg/domain-errors"
)

// NationalIDLength is the fixed number of digits in a national identifier.
const NationalIDLength = 16

// NationalID is a 16-digit national identification number.
type NationalID string

// ParseNationalID accepts exactly 16 ASCII digits after trimming whitespace.
func ParseNationalID(s string) (NationalID, error) {
	s = strings.TrimSpace(s)
	if len(s) != NationalIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "national identifier must be exactly 16 digits")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "national identifier must be exactly 16 digits")
		}
	}
	return NationalID(s), nil
}

func (n NationalID) String() string { return string(n) }
func (n NationalID) IsZero() bool   { return n == "" }
