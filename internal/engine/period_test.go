package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheretrack/sphere/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestNormalizeDateConvergesLocations(t *testing.T) {
	zone := time.FixedZone("server-local", 2*60*60)
	local := time.Date(2025, time.March, 12, 9, 30, 0, 0, zone)
	utc := time.Date(2025, time.March, 12, 23, 45, 0, 0, time.UTC)

	assert.Equal(t, date(2025, time.March, 12), NormalizeDate(local))
	assert.Equal(t, NormalizeDate(utc), NormalizeDate(local))
	assert.Equal(t, time.UTC, NormalizeDate(local).Location())
}

func TestResolvePeriod(t *testing.T) {
	// Wednesday, mid-month.
	ref := time.Date(2025, time.March, 12, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		name        string
		period      string
		customStart *time.Time
		customEnd   *time.Time
		wantStart   time.Time
		wantEndDay  time.Time
	}{
		{
			name:       "daily is the single day",
			period:     model.PeriodDaily,
			wantStart:  date(2025, time.March, 12),
			wantEndDay: date(2025, time.March, 12),
		},
		{
			name:       "weekly runs monday to sunday",
			period:     model.PeriodWeekly,
			wantStart:  date(2025, time.March, 10),
			wantEndDay: date(2025, time.March, 16),
		},
		{
			name:       "monthly covers the calendar month",
			period:     model.PeriodMonthly,
			wantStart:  date(2025, time.March, 1),
			wantEndDay: date(2025, time.March, 31),
		},
		{
			name:       "yearly covers the calendar year",
			period:     model.PeriodYearly,
			wantStart:  date(2025, time.January, 1),
			wantEndDay: date(2025, time.December, 31),
		},
		{
			name:        "custom with both bounds",
			period:      model.PeriodCustom,
			customStart: datePtr(2025, time.February, 3),
			customEnd:   datePtr(2025, time.February, 20),
			wantStart:   date(2025, time.February, 3),
			wantEndDay:  date(2025, time.February, 20),
		},
		{
			name:        "custom with only a start spans 30 days",
			period:      model.PeriodCustom,
			customStart: datePtr(2025, time.February, 3),
			wantStart:   date(2025, time.February, 3),
			wantEndDay:  date(2025, time.March, 5),
		},
		{
			name:       "custom without bounds degrades to the day",
			period:     model.PeriodCustom,
			wantStart:  date(2025, time.March, 12),
			wantEndDay: date(2025, time.March, 12),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolvePeriod(tt.period, ref, tt.customStart, tt.customEnd)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEndDay, NormalizeDate(p.End))
			assert.Equal(t, 23, p.End.Hour())
			assert.Equal(t, 59, p.End.Minute())
		})
	}
}

func TestResolvePeriodWeeklyOnSunday(t *testing.T) {
	// Sunday must still anchor to the preceding Monday.
	sunday := date(2025, time.March, 16)
	p := ResolvePeriod(model.PeriodWeekly, sunday, nil, nil)
	assert.Equal(t, date(2025, time.March, 10), p.Start)
	assert.Equal(t, date(2025, time.March, 16), NormalizeDate(p.End))
}

func TestPreviousPeriodIsContiguousAndEqualLength(t *testing.T) {
	p := ResolvePeriod(model.PeriodWeekly, date(2025, time.March, 12), nil, nil)
	prev := PreviousPeriod(p)

	require.Equal(t, p.Days(), prev.Days())
	assert.Equal(t, date(2025, time.March, 3), prev.Start)
	assert.Equal(t, date(2025, time.March, 9), NormalizeDate(prev.End))
	// No gap and no overlap.
	assert.Equal(t, p.Start.AddDate(0, 0, -1), NormalizeDate(prev.End))
}

func TestPeriodDays(t *testing.T) {
	p := ResolvePeriod(model.PeriodMonthly, date(2025, time.February, 10), nil, nil)
	assert.Equal(t, 28, p.Days())
}
