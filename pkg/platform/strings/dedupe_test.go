package strings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "trims whitespace",
			input:    []string{"  Pune  ", "Nashik  ", "  Satara"},
			expected: []string{"Pune", "Nashik", "Satara"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"Pune", "Nashik", "Pune", "Satara", "Nashik"},
			expected: []string{"Pune", "Nashik", "Satara"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"Pune", "", "  ", "Nashik"},
			expected: []string{"Pune", "Nashik"},
		},
		{
			name:     "preserves case",
			input:    []string{"Cattle", "cattle"},
			expected: []string{"Cattle", "cattle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input))
		})
	}
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t, []string{"Cattle", "Goat"}, DedupeFold([]string{"Cattle", " cattle", "Goat", "CATTLE"}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, SplitList("   "))
	assert.Equal(t, []string{"Pune", "Nashik"}, SplitList("Pune, Nashik,,Pune"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold([]string{"Cattle", "All"}, "all"))
	assert.False(t, ContainsFold([]string{"Cattle"}, "Goat"))
	assert.False(t, ContainsFold(nil, "Goat"))
}

func TestListUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected List
		wantErr  bool
	}{
		{name: "comma string", input: `"Pune, Nashik, Pune"`, expected: List{"Pune", "Nashik"}},
		{name: "array", input: `[" Wai ", "Satara", "Wai"]`, expected: List{"Wai", "Satara"}},
		{name: "empty array", input: `[]`, expected: List{}},
		{name: "null", input: `null`, expected: nil},
		{name: "number", input: `42`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got List
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
