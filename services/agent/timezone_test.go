package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimezoneAbbreviations(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"PST", "America/Los_Angeles"},
		{"pdt", "America/Los_Angeles"},
		{"PT", "America/Los_Angeles"},
		{"EST", "America/New_York"},
		{"et", "America/New_York"},
		{"CST", "America/Chicago"},
		{"MST", "America/Denver"},
		{"UTC", "UTC"},
		{"GMT", "UTC"},
		{"America/Chicago", "America/Chicago"},
		{"", "America/Los_Angeles"},
		{"gibberish", "America/Los_Angeles"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveTimezone(tt.raw, "America/Los_Angeles"), "raw=%q", tt.raw)
	}
}

func TestBuildStartCarriesExplicitOffset(t *testing.T) {
	start, err := buildStart("2025-05-20", "14:00", "America/Los_Angeles")
	require.NoError(t, err)

	// May is PDT: UTC-7.
	assert.Equal(t, "2025-05-20T14:00:00-07:00", start.Format(time.RFC3339))
	assert.Equal(t, 21, start.UTC().Hour())
}

func TestBuildStartRejectsGarbage(t *testing.T) {
	_, err := buildStart("tomorrow", "2pm", "America/Los_Angeles")
	assert.Error(t, err)

	_, err = buildStart("2025-05-20", "14:00", "Not/AZone")
	assert.Error(t, err)
}

func TestWithinOpenHours(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	assert.True(t, withinOpenHours(time.Date(2025, 5, 20, 9, 0, 0, 0, loc)))
	assert.True(t, withinOpenHours(time.Date(2025, 5, 20, 16, 59, 0, 0, loc)))
	assert.False(t, withinOpenHours(time.Date(2025, 5, 20, 8, 59, 0, 0, loc)))
	assert.False(t, withinOpenHours(time.Date(2025, 5, 20, 17, 0, 0, 0, loc)))
	assert.False(t, withinOpenHours(time.Date(2025, 5, 20, 22, 0, 0, 0, loc)))
}
