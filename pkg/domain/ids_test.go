package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "zoopito/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
//
// Justification: This is a pure function enforcing a domain invariant
// at trust boundaries.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAnimalID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAnimalID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAnimalID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		parsed, err := ParseAnimalID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, AnimalID(validUUID), parsed)
	})
}

// TestParseID_TrustBoundary validates parsing of hostile path parameters.
func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE animals;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400\u200B-e29b-41d4-a716-446655440000", true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFarmerID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIDJSON(t *testing.T) {
	t.Run("encodes as canonical string", func(t *testing.T) {
		animalID := NewAnimalID()
		body, err := json.Marshal(map[string]AnimalID{"id": animalID})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"`+animalID.String()+`"}`, string(body))
	})

	t.Run("decodes canonical string", func(t *testing.T) {
		vaccineID := NewVaccineID()
		var out struct {
			ID VaccineID `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"id":"`+vaccineID.String()+`"}`), &out))
		assert.Equal(t, vaccineID, out.ID)
	})

	t.Run("empty string decodes to nil id", func(t *testing.T) {
		var out struct {
			ID FarmerID `json:"id"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"id":""}`), &out))
		assert.True(t, out.ID.IsNil())
	})
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" paravet ")
	require.NoError(t, err)
	assert.Equal(t, RoleParavet, role)

	_, err = ParseRole("superuser")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
