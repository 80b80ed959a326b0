package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Date
		wantErr  bool
	}{
		{
			name:     "valid date",
			input:    "2024-01-05",
			expected: Date{Year: 2024, Month: time.January, Day: 5},
		},
		{
			name:     "end of year",
			input:    "2023-12-31",
			expected: Date{Year: 2023, Month: time.December, Day: 31},
		},
		{
			name:    "rejects slashes",
			input:   "2024/01/05",
			wantErr: true,
		},
		{
			name:    "rejects impossible day",
			input:   "2024-02-30",
			wantErr: true,
		},
		{
			name:    "rejects empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDateOrdering(t *testing.T) {
	jan3 := Date{Year: 2024, Month: time.January, Day: 3}
	jan10 := Date{Year: 2024, Month: time.January, Day: 10}
	feb1 := Date{Year: 2024, Month: time.February, Day: 1}
	prevYear := Date{Year: 2023, Month: time.December, Day: 31}

	// Chronological, not lexical: "2024-01-10" sorts after "2024-01-03"
	// even though day 10's string starts with "1".
	assert.True(t, jan3.Before(jan10))
	assert.False(t, jan10.Before(jan3))
	assert.True(t, jan10.Before(feb1))
	assert.True(t, prevYear.Before(jan3))
	assert.True(t, feb1.After(jan10))
	assert.False(t, jan3.Before(jan3))
}

func TestDateIsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, Today().IsZero())
}

func TestDateJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := Date{Year: 2024, Month: time.March, Day: 7}

		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-07"`, string(data))

		var back Date
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, d, back)
	})

	t.Run("tolerates trailing time component", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2024-01-05T00:00:00.000Z"`), &d))
		assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 5}, d)
	})

	t.Run("rejects non-string value", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`20240105`), &d))
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
	})
}
