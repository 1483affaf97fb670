// Package calendar exports alarms as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
)

const (
	productID  = "-//briefing-go//alarms//EN"
	uidDomain  = "@briefing-go"
	dailyTitle = "COVID-19 Update"
	triggerNow = "PT0S"
)

// Feed is what gets exported.
type Feed struct {
	Pending []briefing.Alarm
	Fired   []briefing.Alarm
	// Daily is the recurrence of the daily notification, if enabled.
	Daily *rrule.ROption
}

// Build returns the feed as a calendar: one VEVENT per alarm, pending ones
// with a VALARM at their start, and a recurring VEVENT for the daily
// notification.
func Build(f Feed) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	cal.Children = make([]*ical.Component, 0, len(f.Pending)+len(f.Fired)+1)
	for _, a := range f.Fired {
		cal.Children = append(cal.Children, alarmEvent(a, false))
	}
	for _, a := range f.Pending {
		cal.Children = append(cal.Children, alarmEvent(a, true))
	}
	if f.Daily != nil {
		cal.Children = append(cal.Children, dailyEvent(*f.Daily))
	}
	return cal
}

// Marshal encodes the feed and returns it with its entity tag.
func Marshal(f Feed) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(Build(f)); err != nil {
		return nil, "", fmt.Errorf("calendar - Marshal - Encode: %w", err)
	}
	data := buf.Bytes()

	etag, err := ETag(data)
	if err != nil {
		return nil, "", fmt.Errorf("calendar - Marshal - ETag: %w", err)
	}
	return data, etag, nil
}

func alarmEvent(a briefing.Alarm, pending bool) *ical.Component {
	event := ical.NewEvent()
	start := a.ScheduledAt.UTC()

	event.Props.SetText(ical.PropUID, "alarm-"+strconv.Itoa(a.ID)+uidDomain)
	// the record keeps no creation time
	event.Props.SetDateTime(ical.PropDateTimeStamp, start)
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetText(ical.PropSummary, a.Title)
	if a.Body != "" {
		event.Props.SetText(ical.PropDescription, a.Body)
	}

	status := "COMPLETED"
	if pending {
		status = "CONFIRMED"
		event.Children = append(event.Children, displayAlarm(a.Title))
	}
	event.Props.SetText(ical.PropStatus, status)

	return event.Component
}

func displayAlarm(description string) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, description)

	trigger := ical.NewProp(ical.PropTrigger)
	trigger.SetValueType(ical.ValueDuration)
	trigger.Value = triggerNow
	alarm.Props.Set(trigger)

	return alarm
}

func dailyEvent(opt rrule.ROption) *ical.Component {
	event := ical.NewEvent()
	start := opt.Dtstart.UTC()
	opt.Dtstart = start

	event.Props.SetText(ical.PropUID, "daily"+uidDomain)
	event.Props.SetDateTime(ical.PropDateTimeStamp, start)
	event.Props.SetDateTime(ical.PropDateTimeStart, start)
	event.Props.SetText(ical.PropSummary, dailyTitle)
	event.Props.SetRecurrenceRule(&opt)

	return event.Component
}
