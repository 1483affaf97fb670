package scheduler

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Daily is the recurrence of the daily notification: every day at a fixed
// wall-clock hour and minute.
type Daily struct {
	hour   int
	minute int
}

func NewDaily(hour, minute int) (*Daily, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("scheduler - NewDaily - invalid time %d:%02d", hour, minute)
	}
	return &Daily{hour: hour, minute: minute}, nil
}

func (d *Daily) Hour() int   { return d.hour }
func (d *Daily) Minute() int { return d.minute }

// Option is the recurrence as an RRULE, anchored at start.
func (d *Daily) Option(start time.Time) rrule.ROption {
	return rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: time.Date(start.Year(), start.Month(), start.Day(), d.hour, d.minute, 0, 0, start.Location()),
	}
}

// rule is anchored on the day before now so the previous occurrence always
// exists.
func (d *Daily) rule(now time.Time) (*rrule.RRule, error) {
	return rrule.NewRRule(d.Option(now.AddDate(0, 0, -1)))
}

// Due reports whether now lies within the minute of an occurrence.
func (d *Daily) Due(now time.Time) bool {
	r, err := d.rule(now)
	if err != nil {
		return false
	}
	last := r.Before(now, true)
	return !last.IsZero() && now.Sub(last) < time.Minute
}

// Next returns the first occurrence strictly after now.
func (d *Daily) Next(now time.Time) time.Time {
	r, err := d.rule(now)
	if err != nil {
		return time.Time{}
	}
	return r.After(now, false)
}
