package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOptions(t *testing.T) {
	out, err := NormalizeOptions([]DropdownOption{
		{Value: " high ", Label: "High"},
		{Value: "low"},
	})
	require.NoError(t, err)
	assert.Equal(t, []DropdownOption{{Value: "high", Label: "High"}, {Value: "low", Label: "low"}}, out)

	_, err = NormalizeOptions([]DropdownOption{{Value: "a"}, {Value: "a "}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NormalizeOptions([]DropdownOption{{Value: "  ", Label: "blank"}})
	assert.ErrorIs(t, err, ErrValidation)

	out, err = NormalizeOptions(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
