package cleaning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "iso date",
			input:    "2020-03-15",
			expected: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso datetime",
			input:    "2020-03-15 10:30:00",
			expected: time.Date(2020, time.March, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "rfc3339",
			input:    "2021-01-02T15:04:05Z",
			expected: time.Date(2021, time.January, 2, 15, 4, 5, 0, time.UTC),
		},
		{
			name:     "long month name",
			input:    "March 15, 2020",
			expected: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "short month name",
			input:    "Mar 15, 2020",
			expected: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year month day words",
			input:    "2020 Mar 15",
			expected: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year and month only",
			input:    "2020-03",
			expected: time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year only",
			input:    "2020",
			expected: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  2020-03-15  ",
			expected: time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseDate(tt.input)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "not a date", "2020-13-40", "15/03/2020"} {
		assert.Nil(t, ParseDate(input), "input %q", input)
	}
}
