package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("20-03-2024")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"10:00", 600, false},
		{"10:30", 630, false},
		{"9:30", 570, false}, // time.Parse tolerates unpadded hours
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"10:60", 0, true},
		{"10", 0, true},
		{"10:00:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.minutes, got, "input %q", tt.in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:30", FormatClock(570))
	assert.Equal(t, "23:59", FormatClock(1439))

	// canonical form keeps string order chronological: raw "9:30" sorts
	// after "10:00", the padded form does not
	assert.True(t, "9:30" > "10:00")
	assert.True(t, FormatClock(570) < FormatClock(600))

	// unpadded input collapses onto the same stored slot
	m, err := ParseClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", FormatClock(m))
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(time.Date(2024, 3, 20, 14, 45, 12, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 20, 23, 59, 59, 999999999, time.UTC), end)

	// a slot at either bound of the day stays inside the window
	assert.False(t, start.After(start))
	assert.True(t, end.After(time.Date(2024, 3, 20, 23, 59, 59, 0, time.UTC)))
}

func TestCombineDateClock(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	got, err := CombineDateClock(date, "10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC), got)

	_, err = CombineDateClock(date, "25:00")
	assert.Error(t, err)
}
