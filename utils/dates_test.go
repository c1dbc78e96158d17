package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var testNow = time.Date(2025, 6, 11, 14, 30, 0, 0, time.UTC)

func TestParseNaturalDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "RFC3339",
			input:    "2025-07-01T10:00:00Z",
			expected: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "date with time",
			input:    "2025-07-01 10:30",
			expected: time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "date only defaults to 9am",
			input:    "2025-07-01",
			expected: time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "tomorrow 3pm",
			input:    "tomorrow 3pm",
			expected: time.Date(2025, 6, 12, 15, 0, 0, 0, time.UTC),
		},
		{
			name:     "tomorrow 3:30pm",
			input:    "Tomorrow 3:30pm",
			expected: time.Date(2025, 6, 12, 15, 30, 0, 0, time.UTC),
		},
		{
			name:     "today defaults to 9am",
			input:    "today",
			expected: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "day after tomorrow",
			input:    "day after tomorrow",
			expected: time.Date(2025, 6, 13, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "friday this week",
			input:    "friday 11:00",
			expected: time.Date(2025, 6, 13, 11, 0, 0, 0, time.UTC),
		},
		{
			name:     "monday means the coming monday",
			input:    "monday",
			expected: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "next monday is the coming monday plus a week",
			input:    "next monday",
			expected: time.Date(2025, 6, 23, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "next friday skips to the following week",
			input:    "next friday",
			expected: time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "weekday with am time",
			input:    "thursday 8am",
			expected: time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "12am is midnight",
			input:    "tomorrow 12am",
			expected: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "24h clock",
			input:    "tomorrow 15:04",
			expected: time.Date(2025, 6, 12, 15, 4, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNaturalDate(tt.input, testNow)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestParseNaturalDateRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "gibberish", input: "whenever works"},
		{name: "bad clock", input: "tomorrow 25pm"},
		{name: "ambiguous bare number", input: "monday 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNaturalDate(tt.input, testNow)
			assert.Error(t, err)
		})
	}
}
