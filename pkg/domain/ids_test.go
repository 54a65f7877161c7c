package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "donorhub/pkg/domain-errors"
)

func TestParseApplicationID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseApplicationID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseApplicationID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseApplicationID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, ApplicationID(raw), id)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE applications;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseActorID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	valid := uuid.New().String()
	for _, input := range []string{"", "invalid", uuid.Nil.String()} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errApp := ParseApplicationID(input)
			_, errActor := ParseActorID(input)
			_, errDraw := ParseDrawID(input)
			require.Error(t, errApp)
			require.Error(t, errActor)
			require.Error(t, errDraw)
		})
	}

	_, errApp := ParseApplicationID(valid)
	_, errActor := ParseActorID(valid)
	_, errDraw := ParseDrawID(valid)
	require.NoError(t, errApp)
	require.NoError(t, errActor)
	require.NoError(t, errDraw)
}

func TestParseNationalID(t *testing.T) {
	t.Run("accepts exactly 16 digits", func(t *testing.T) {
		n, err := ParseNationalID(" 1234567890123456 ")
		require.NoError(t, err)
		assert.Equal(t, NationalID("1234567890123456"), n)
	})

	for _, input := range []string{"123456789012345", "12345678901234567", "12345678901234a6", ""} {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := ParseNationalID(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

func TestParseBloodType(t *testing.T) {
	bt, err := ParseBloodType(" ab- ")
	require.NoError(t, err)
	assert.Equal(t, BloodTypeABNeg, bt)
	assert.True(t, bt.IsRare())
	assert.True(t, BloodTypeONeg.IsRare())
	assert.False(t, BloodTypeOPos.IsRare())

	_, err = ParseBloodType("C+")
	require.Error(t, err)
}

func TestIDTextRoundTrip(t *testing.T) {
	actor := ActorID(uuid.New())
	raw, err := json.Marshal(map[string]ActorID{"actor": actor})
	require.NoError(t, err)
	assert.Contains(t, string(raw), actor.String())

	var decoded map[string]ActorID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, actor, decoded["actor"])

	var bad ApplicationID
	assert.Error(t, bad.UnmarshalText([]byte("not-a-uuid")))
}
