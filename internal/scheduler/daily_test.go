package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/Raimguhinov/briefing-go/internal/scheduler"
)

func TestNewDailyValidates(t *testing.T) {
	for _, tc := range []struct{ hour, minute int }{{-1, 0}, {24, 0}, {0, 60}, {12, -1}} {
		_, err := scheduler.NewDaily(tc.hour, tc.minute)
		assert.Error(t, err, "%d:%d", tc.hour, tc.minute)
	}
}

func TestDailyDue(t *testing.T) {
	daily, err := scheduler.NewDaily(8, 30)
	require.NoError(t, err)

	day := func(h, m, s int) time.Time { return time.Date(2024, time.May, 1, h, m, s, 0, time.Local) }

	tests := []struct {
		now  time.Time
		want bool
	}{
		{day(8, 30, 0), true},
		{day(8, 30, 59), true},
		{day(8, 29, 59), false},
		{day(8, 31, 0), false},
		{day(20, 30, 0), false},
		{day(0, 0, 0), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, daily.Due(tt.now), tt.now.String())
	}
}

func TestDailyNext(t *testing.T) {
	daily, err := scheduler.NewDaily(8, 30)
	require.NoError(t, err)

	assert.Equal(t,
		time.Date(2024, time.May, 1, 8, 30, 0, 0, time.Local),
		daily.Next(time.Date(2024, time.May, 1, 7, 0, 0, 0, time.Local)),
	)
	assert.Equal(t,
		time.Date(2024, time.May, 2, 8, 30, 0, 0, time.Local),
		daily.Next(time.Date(2024, time.May, 1, 8, 30, 0, 0, time.Local)),
	)
}

func TestDailyOption(t *testing.T) {
	daily, err := scheduler.NewDaily(8, 30)
	require.NoError(t, err)

	opt := daily.Option(time.Date(2024, time.May, 1, 17, 45, 12, 0, time.UTC))

	assert.Equal(t, rrule.DAILY, opt.Freq)
	assert.Equal(t, time.Date(2024, time.May, 1, 8, 30, 0, 0, time.UTC), opt.Dtstart)
}
