package history_test

import (
	"testing"
	"time"

	"labconsole/internal/core/domain/model/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestBuildTrend(t *testing.T) {
	t.Run("no trend for one entry or fewer", func(t *testing.T) {
		_, ok := history.BuildTrend(nil)
		assert.False(t, ok)

		_, ok = history.BuildTrend(history.Series{{OrderDate: day("2024-01-01"), ResultValue: "4.0"}})
		assert.False(t, ok)
	})

	t.Run("labels and values follow series order", func(t *testing.T) {
		series := history.Series{
			{OrderDate: day("2024-02-01"), ResultValue: "5.2"},
			{OrderDate: day("2024-01-01"), ResultValue: "4.0"},
		}

		trend, ok := history.BuildTrend(series)

		require.True(t, ok)
		assert.Equal(t, []string{"2024-02-01", "2024-01-01"}, trend.Labels())
		assert.Equal(t, []history.Point{
			{Label: "2024-02-01", Value: 5.2, Valid: true},
			{Label: "2024-01-01", Value: 4.0, Valid: true},
		}, trend.Points)
	})

	t.Run("non numeric values become gaps", func(t *testing.T) {
		series := history.Series{
			{OrderDate: day("2024-01-01"), ResultValue: "positive"},
			{OrderDate: day("2024-02-01"), ResultValue: "7 mg/dL"},
		}

		trend, ok := history.BuildTrend(series)

		require.True(t, ok)
		assert.False(t, trend.Points[0].Valid)
		assert.True(t, trend.Points[1].Valid)
		assert.InDelta(t, 7.0, trend.Points[1].Value, 1e-9)
	})
}

func TestParseLeadingFloat(t *testing.T) {
	tests := []struct {
		input string
		value float64
		ok    bool
	}{
		{"5.2", 5.2, true},
		{"  4.0", 4.0, true},
		{"5.2 mmol/L", 5.2, true},
		{"-1.5", -1.5, true},
		{".5", 0.5, true},
		{"3.", 3, true},
		{"1e3", 1000, true},
		{"12abc", 12, true},
		{"", 0, false},
		{"abc", 0, false},
		{"<0.5", 0, false},
		{"Infinity", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			value, ok := history.ParseLeadingFloat(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.value, value, 1e-9)
		})
	}
}

func TestSeries_Clone(t *testing.T) {
	original := history.Series{{ResultValue: "1"}, {ResultValue: "2"}}
	clone := original.Clone()
	clone[0].ResultValue = "changed"

	assert.Equal(t, "1", original[0].ResultValue)
	assert.Nil(t, history.Series(nil).Clone())
}
