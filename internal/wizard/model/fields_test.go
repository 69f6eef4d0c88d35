package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_SetGetText(t *testing.T) {
	var f Fields

	require.NoError(t, f.Set(FieldTitle, "Ten days in Hokkaido"))
	v, err := f.Get(FieldTitle)
	require.NoError(t, err)
	assert.Equal(t, "Ten days in Hokkaido", v)

	t.Run("nil clears text", func(t *testing.T) {
		require.NoError(t, f.Set(FieldTitle, nil))
		assert.Empty(t, f.Title)
	})

	t.Run("non string rejected", func(t *testing.T) {
		err := f.Set(FieldTagline, 42.0)
		assert.ErrorIs(t, err, ErrInvalidFieldValue)
	})
}

func TestFields_SetNumbers(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    *int
		wantErr bool
	}{
		{name: "json number", raw: 7.0, want: intPtr(7)},
		{name: "yaml int", raw: 12, want: intPtr(12)},
		{name: "int64", raw: int64(3), want: intPtr(3)},
		{name: "numeric string", raw: " 14 ", want: intPtr(14)},
		{name: "empty string is absent", raw: "", want: nil},
		{name: "huge float rejected", raw: 1e20, wantErr: true},
		{name: "huge negative float rejected", raw: -1e20, wantErr: true},
		{name: "int64 above range rejected", raw: int64(1) << 40, wantErr: true},
		{name: "numeric string above range rejected", raw: "99999999999", wantErr: true},
		{name: "largest allowed float", raw: float64(math.MaxInt32), want: intPtr(math.MaxInt32)},
		{name: "nil is absent", raw: nil, want: nil},
		{name: "fraction rejected", raw: 2.5, wantErr: true},
		{name: "garbage string rejected", raw: "a week", wantErr: true},
		{name: "bool rejected", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Fields
			err := f.Set(FieldDurationDays, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFieldValue)
				assert.Nil(t, f.DurationDays)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.DurationDays)
		})
	}
}

func TestFields_GetAbsentNumber(t *testing.T) {
	var f Fields
	v, err := f.Get(FieldBudget)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFields_UnknownField(t *testing.T) {
	var f Fields
	assert.ErrorIs(t, f.Set("price", "1"), ErrUnknownField)
	_, err := f.Get("price")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.False(t, IsFormField("price"))
	assert.False(t, IsFormField(FieldActivityTags))
	assert.True(t, IsFormField(FieldVideoURL))
	assert.True(t, IsNumberField(FieldBudget))
	assert.False(t, IsNumberField(FieldTitle))
}

func intPtr(n int) *int { return &n }

func TestFields_SetBudgetOutOfRangeIsTypeError(t *testing.T) {
	var f Fields
	err := f.Set(FieldBudget, 1e20)

	require.ErrorIs(t, err, ErrInvalidFieldValue)
	assert.Contains(t, err.Error(), "expects a whole number in range")
	assert.Nil(t, f.Budget)
}
