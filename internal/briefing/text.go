package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
)

const (
	dailyTitlePrefix = "COVID-19 Update "
	welcomeTitle     = "Welcome to the COVID-19 Briefing and Alarm application!"
)

// DailyTitle is the title of the daily notification for now's calendar date.
func DailyTitle(now time.Time) string {
	return dailyTitlePrefix + wallclock.Day(now)
}

// AlarmTitle derives the stored title of an alarm from the requested label.
// An empty label falls back to a title carrying the id the alarm would get.
// Titles identify alarms, so a label is unique across pending and fired
// alarms until the alarm carrying it is dismissed.
func AlarmTitle(label string, nextID int) string {
	if title := strings.TrimSpace(label); title != "" {
		return title
	}
	return fmt.Sprintf("Alarm (ID : %d)", nextID)
}

// UpcomingBody is the preview shown for an alarm until it fires.
func UpcomingBody(at time.Time, flags Flags) string {
	var b strings.Builder
	b.WriteString("Upcoming: ")
	b.WriteString(wallclock.Header(at))
	b.WriteString("\nAlarm will notify of COVID-19 infection rate")
	switch {
	case flags.Weather && flags.News:
		b.WriteString(", weather and news")
	case flags.Weather:
		b.WriteString(" and weather")
	case flags.News:
		b.WriteString(" and news")
	}
	return b.String()
}

// Welcome is the notification seeded on first start.
func Welcome(region string, hour, minute int) Notification {
	return Notification{
		Title: welcomeTitle,
		Body: fmt.Sprintf(
			"Your location is set to : %s\nDaily infection rate notifications set to appear at %d:%02d",
			region, hour, minute,
		),
	}
}
