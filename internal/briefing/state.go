package briefing

import (
	"slices"
	"time"
)

// State is the persisted aggregate: the id counter and the three collections.
// It is always written and read as one record.
type State struct {
	NextID        int            `json:"next_id"`
	Notifications []Notification `json:"notifications"`
	Fired         []Alarm        `json:"fired_alarms"`
	Pending       []Alarm        `json:"pending_alarms"`
}

// Clone returns a deep copy whose slices can be mutated independently.
func (s State) Clone() State {
	return State{
		NextID:        s.NextID,
		Notifications: cloneOrEmpty(s.Notifications),
		Fired:         cloneOrEmpty(s.Fired),
		Pending:       cloneOrEmpty(s.Pending),
	}
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// PendingByDue returns the pending alarms ordered by scheduled time, ties
// broken by ascending id.
func (s State) PendingByDue() []Alarm {
	out := slices.Clone(s.Pending)
	slices.SortStableFunc(out, func(a, b Alarm) int {
		if c := a.ScheduledAt.Compare(b.ScheduledAt); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return out
}

// PendingByID looks up a pending alarm.
func (s State) PendingByID(id int) (Alarm, bool) {
	i := slices.IndexFunc(s.Pending, func(a Alarm) bool { return a.ID == id })
	if i < 0 {
		return Alarm{}, false
	}
	return s.Pending[i], true
}

// AlarmByTitle looks up an alarm by title, fired collection first.
func (s State) AlarmByTitle(title string) (Alarm, bool) {
	for _, coll := range [][]Alarm{s.Fired, s.Pending} {
		if i := indexByTitle(coll, title); i >= 0 {
			return coll[i], true
		}
	}
	return Alarm{}, false
}

// HasNotification reports whether a notification with title exists.
func (s State) HasNotification(title string) bool {
	return slices.ContainsFunc(s.Notifications, func(n Notification) bool { return n.Title == title })
}

// AddAlarm registers a new pending alarm. A request whose title is already
// held by a pending or fired alarm is a no-op and returns that alarm.
func (s *State) AddAlarm(title string, at time.Time, flags Flags, body string) (Alarm, []Intent) {
	if existing, ok := s.AlarmByTitle(title); ok {
		return existing, nil
	}

	alarm := Alarm{
		ID:             s.NextID,
		Title:          title,
		ScheduledAt:    at,
		Body:           body,
		IncludeWeather: flags.Weather,
		IncludeNews:    flags.News,
	}
	s.NextID++
	s.Pending = append(s.Pending, alarm)

	return alarm, []Intent{Persist(), Arm(alarm.ID, at)}
}

// Fire moves pending alarm id to the fired collection with body as its
// content. Firing an alarm that is no longer pending is a no-op.
func (s *State) Fire(id int, body string) (Alarm, []Intent) {
	i := slices.IndexFunc(s.Pending, func(a Alarm) bool { return a.ID == id })
	if i < 0 {
		return Alarm{}, nil
	}

	alarm := s.Pending[i]
	alarm.Body = body
	s.Pending = slices.Delete(s.Pending, i, i+1)
	s.Fired = append(s.Fired, alarm)

	return alarm, []Intent{Persist(), Disarm(id), Speak(alarm.Title)}
}

// AddNotification appends n unless a notification with the same title exists.
func (s *State) AddNotification(n Notification) []Intent {
	if s.HasNotification(n.Title) {
		return nil
	}
	s.Notifications = append(s.Notifications, n)
	return []Intent{Persist()}
}

// DismissAlarm removes the first alarm titled title, searching fired alarms
// before pending ones.
func (s *State) DismissAlarm(title string) (Alarm, []Intent) {
	if i := indexByTitle(s.Fired, title); i >= 0 {
		alarm := s.Fired[i]
		s.Fired = slices.Delete(s.Fired, i, i+1)
		return alarm, []Intent{Persist(), Disarm(alarm.ID)}
	}
	if i := indexByTitle(s.Pending, title); i >= 0 {
		alarm := s.Pending[i]
		s.Pending = slices.Delete(s.Pending, i, i+1)
		return alarm, []Intent{Persist(), Disarm(alarm.ID)}
	}
	return Alarm{}, nil
}

// DismissNotification removes the first notification titled title.
func (s *State) DismissNotification(title string) []Intent {
	i := slices.IndexFunc(s.Notifications, func(n Notification) bool { return n.Title == title })
	if i < 0 {
		return nil
	}
	s.Notifications = slices.Delete(s.Notifications, i, i+1)
	return []Intent{Persist()}
}

// Reset restores the first-start state.
func (s *State) Reset() []Intent {
	intents := make([]Intent, 0, len(s.Pending)+1)
	intents = append(intents, Persist())
	for _, a := range s.Pending {
		intents = append(intents, Disarm(a.ID))
	}
	*s = State{
		Notifications: []Notification{},
		Fired:         []Alarm{},
		Pending:       []Alarm{},
	}
	return intents
}

func indexByTitle(alarms []Alarm, title string) int {
	return slices.IndexFunc(alarms, func(a Alarm) bool { return a.Title == title })
}
