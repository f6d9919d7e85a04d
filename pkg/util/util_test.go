package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSyncTime(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-05 08:30:00":  time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
		"2024-03-05T08:30:00":  time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
		"2024-03-05T08:30:00Z": time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
		"2024-03-05":           time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		"2024/03/05 08:30:00":  time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
		" 2024-03-05 ":         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got, ok := ParseSyncTime(input)
		require.True(t, ok, input)
		assert.True(t, got.Equal(want), "%s parsed to %v", input, got)
	}

	for _, input := range []string{"", "   ", "not a date", "05.03.2024"} {
		_, ok := ParseSyncTime(input)
		assert.False(t, ok, input)
	}
}

func TestFormatTimePtr(t *testing.T) {
	assert.Equal(t, "", FormatTimePtr(nil))
	ts := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05T08:30:00Z", FormatTimePtr(&ts))
}

func TestIsValidPort(t *testing.T) {
	assert.NoError(t, IsValidPort(8080))
	assert.NoError(t, IsValidPort("8080"))
	assert.Error(t, IsValidPort(0))
	assert.Error(t, IsValidPort(-1))
	assert.Error(t, IsValidPort(70000))
	assert.Error(t, IsValidPort("http"))
}
