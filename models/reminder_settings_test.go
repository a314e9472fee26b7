package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetDaysNormalized(t *testing.T) {
	cases := []struct {
		name string
		in   OffsetDays
		want OffsetDays
	}{
		{"already clean", OffsetDays{30, 7, 1}, OffsetDays{30, 7, 1}},
		{"sorted descending", OffsetDays{1, 30, 7}, OffsetDays{30, 7, 1}},
		{"duplicates dropped", OffsetDays{7, 7, 7, 3}, OffsetDays{7, 3}},
		{"non-positive dropped", OffsetDays{0, -5, 15}, OffsetDays{15}},
		{"empty stays empty", OffsetDays{}, OffsetDays{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalized())
		})
	}
}

func TestOffsetDaysRoundTrip(t *testing.T) {
	in := OffsetDays{30, 15, 7}

	val, err := in.Value()
	require.NoError(t, err)

	var out OffsetDays
	require.NoError(t, out.Scan(val))
	assert.Equal(t, in, out)

	// jsonb often arrives as string
	var fromString OffsetDays
	require.NoError(t, fromString.Scan(`[3,1]`))
	assert.Equal(t, OffsetDays{3, 1}, fromString)
}

func TestReminderSettingsBeforeSave(t *testing.T) {
	s := &ReminderSettings{
		ReminderType: ReminderTypeServiceExpiry,
		Enabled:      true,
		OffsetDays:   OffsetDays{1, 7, 7, -2},
	}
	require.NoError(t, s.BeforeSave(nil))
	assert.Equal(t, OffsetDays{7, 1}, s.OffsetDays)
}

func TestReminderSettingsBeforeSaveEnabledNeedsOffsets(t *testing.T) {
	s := &ReminderSettings{
		ReminderType: ReminderTypeServiceExpiry,
		Enabled:      true,
		OffsetDays:   OffsetDays{0, -1},
	}
	assert.Error(t, s.BeforeSave(nil))

	s.Enabled = false
	assert.NoError(t, s.BeforeSave(nil)) // empty set is fine while disabled
}
