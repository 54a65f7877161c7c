package models

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "donorhub/pkg/domain-errors"
)

// Kind names an identifier namespace.
type Kind string

const (
	KindDonor    Kind = "donor"
	KindHospital Kind = "hospital"
	KindLottery  Kind = "lottery"
)

// NamespaceSize is the number of distinct numerals per kind (000000–999999).
const NamespaceSize = 1_000_000

const numeralWidth = 6

var prefixes = map[Kind]string{
	KindDonor:    "DNR-",
	KindHospital: "HSP-",
	KindLottery:  "LOT-",
}

// Kinds lists every namespace in a stable order.
var Kinds = []Kind{KindDonor, KindHospital, KindLottery}

func (k Kind) IsValid() bool {
	_, ok := prefixes[k]
	return ok
}

// Prefix returns the fixed value prefix for the kind, e.g. "DNR-".
func (k Kind) Prefix() string {
	return prefixes[k]
}

func (k Kind) String() string { return string(k) }

// Identifier is an issued, immutable (kind, value) pair.
//
// Invariants:
//   - Value is Kind.Prefix() followed by exactly six ASCII digits
//   - Value is unique within Kind at the moment of issuance
type Identifier struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

func (i Identifier) String() string { return i.Value }

func (i Identifier) IsZero() bool { return i.Value == "" }

// Format builds the identifier for numeral n, zero padded to six digits.
func Format(kind Kind, n int) (Identifier, error) {
	if !kind.IsValid() {
		return Identifier{}, dErrors.New(dErrors.CodeInvalidInput, "unknown identifier kind")
	}
	if n < 0 || n >= NamespaceSize {
		return Identifier{}, dErrors.New(dErrors.CodeInvalidInput, "identifier numeral out of range")
	}
	return Identifier{Kind: kind, Value: fmt.Sprintf("%s%0*d", kind.Prefix(), numeralWidth, n)}, nil
}

// Parse validates a value and infers its kind from the prefix.
func Parse(value string) (Identifier, error) {
	value = strings.TrimSpace(value)
	for _, kind := range Kinds {
		numeral, ok := strings.CutPrefix(value, kind.Prefix())
		if !ok {
			continue
		}
		if len(numeral) != numeralWidth {
			break
		}
		if _, err := strconv.ParseUint(numeral, 10, 32); err != nil {
			break
		}
		return Identifier{Kind: kind, Value: value}, nil
	}
	return Identifier{}, dErrors.New(dErrors.CodeInvalidInput, "malformed identifier")
}

// ParseKind validates an identifier of an expected kind.
func ParseKind(kind Kind, value string) (Identifier, error) {
	ident, err := Parse(value)
	if err != nil {
		return Identifier{}, err
	}
	if ident.Kind != kind {
		return Identifier{}, dErrors.New(dErrors.CodeInvalidInput, "identifier must be a "+kind.String()+" identifier")
	}
	return ident, nil
}
