package scheduler

import (
	"time"

	"github.com/Raimguhinov/briefing-go/internal/speech"
)

// Clock provides the current wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Stopper cancels an armed timer.
type Stopper interface {
	Stop() bool
}

// AfterFunc arms a one-shot timer running f after d.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock overrides the default clock.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithAfterFunc overrides the timer factory.
func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.afterFunc = fn
		}
	}
}

// WithSpeaker sets where fired alarm titles are read out.
func WithSpeaker(sp speech.Speaker) Option {
	return func(s *Scheduler) {
		if sp != nil {
			s.speaker = sp
		}
	}
}

// WithDaily enables the daily notification check on every tick.
func WithDaily(d *Daily) Option {
	return func(s *Scheduler) {
		s.daily = d
	}
}

// WithComposeWorkers bounds how many due alarms are composed at once.
func WithComposeWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSpeakTimeout bounds a single speech call.
func WithSpeakTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.speakTimeout = d
		}
	}
}
