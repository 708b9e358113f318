package sentinel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicate(t *testing.T) {
	err := fmt.Errorf("insert animal: %w", Duplicate("tag_number"))

	require.ErrorIs(t, err, ErrAlreadyUsed)
	field, ok := DuplicateField(err)
	assert.True(t, ok)
	assert.Equal(t, "tag_number", field)

	_, ok = DuplicateField(ErrNotFound)
	assert.False(t, ok)
}
