package scheduler

import (
	"time"

	"github.com/Raimguhinov/briefing-go/internal/observability/metrics"
)

type armed struct {
	stop Stopper
	at   time.Time
}

// arm schedules a wake-up for alarm id at at. An alarm already armed for the
// same instant keeps its timer, any other instant replaces it.
func (s *Scheduler) arm(id int, at, now time.Time) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if s.closed {
		return
	}
	if t, ok := s.timers[id]; ok {
		if t.at.Equal(at) {
			return
		}
		t.stop.Stop()
	}

	s.timers[id] = armed{
		stop: s.afterFunc(at.Sub(now), func() { s.onTimer(id, at) }),
		at:   at,
	}
	metrics.SetArmedTimers(len(s.timers))
}

func (s *Scheduler) disarm(id int) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.stop.Stop()
		delete(s.timers, id)
		metrics.SetArmedTimers(len(s.timers))
	}
}

// release forgets the timer of id if it is the one armed for at.
func (s *Scheduler) release(id int, at time.Time) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[id]; ok && t.at.Equal(at) {
		delete(s.timers, id)
		metrics.SetArmedTimers(len(s.timers))
	}
}

// Armed returns the instant each armed alarm is due to wake up.
func (s *Scheduler) Armed() map[int]time.Time {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	out := make(map[int]time.Time, len(s.timers))
	for id, t := range s.timers {
		out[id] = t.at
	}
	return out
}

// Close stops every armed timer. Timers are not armed after Close.
func (s *Scheduler) Close() {
	s.cancel()

	s.timersMu.Lock()
	timers := s.timers
	s.timers = make(map[int]armed)
	s.closed = true
	s.timersMu.Unlock()

	for _, t := range timers {
		t.stop.Stop()
	}
	metrics.SetArmedTimers(0)
}
