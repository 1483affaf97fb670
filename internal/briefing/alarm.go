package briefing

import (
	"encoding/json"
	"time"

	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
)

// Flags selects the optional bulletin segments of an alarm.
type Flags struct {
	Weather bool `json:"weather"`
	News    bool `json:"news"`
}

// Alarm is a user-scheduled briefing. It lives either in the pending or in the
// fired collection of a State, never in both.
type Alarm struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	ScheduledAt    time.Time `json:"-"`
	Body           string    `json:"body"`
	IncludeWeather bool      `json:"weather"`
	IncludeNews    bool      `json:"news"`
}

// Flags returns the segment selection stored on the alarm.
func (a Alarm) Flags() Flags {
	return Flags{Weather: a.IncludeWeather, News: a.IncludeNews}
}

// Due reports whether the alarm should ring at now.
func (a Alarm) Due(now time.Time) bool {
	return !now.Before(a.ScheduledAt)
}

type alarmJSON struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Time    string `json:"time"`
	Body    string `json:"body"`
	Weather bool   `json:"weather"`
	News    bool   `json:"news"`
}

// MarshalJSON stores the scheduled time as a zone-less local wall-clock string.
func (a Alarm) MarshalJSON() ([]byte, error) {
	return json.Marshal(alarmJSON{
		ID:      a.ID,
		Title:   a.Title,
		Time:    wallclock.Format(a.ScheduledAt.In(time.Local)),
		Body:    a.Body,
		Weather: a.IncludeWeather,
		News:    a.IncludeNews,
	})
}

func (a *Alarm) UnmarshalJSON(data []byte) error {
	var raw alarmJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	at, err := wallclock.Parse(raw.Time)
	if err != nil {
		return err
	}
	*a = Alarm{
		ID:             raw.ID,
		Title:          raw.Title,
		ScheduledAt:    at,
		Body:           raw.Body,
		IncludeWeather: raw.Weather,
		IncludeNews:    raw.News,
	}
	return nil
}

// Notification is a dismissable message. Daily notifications embed their
// calendar date in the title, which keys them uniquely.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
