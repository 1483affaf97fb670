// Package scheduler drives the alarm life cycle: it fires due alarms, keeps a
// one-shot timer armed for every pending alarm and adds the daily
// notification.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/observability/metrics"
	"github.com/Raimguhinov/briefing-go/internal/speech"
	"github.com/Raimguhinov/briefing-go/internal/store"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
)

const (
	_defaultWorkers      = 4
	_defaultSpeakTimeout = 30 * time.Second

	triggerTick   = "tick"
	triggerTimer  = "timer"
	triggerCreate = "create"

	kindDaily   = "daily"
	kindWelcome = "welcome"
)

// Composer builds alarm and notification bodies. Implemented by
// bulletin.Composer.
type Composer interface {
	Compose(ctx context.Context, at time.Time, flags briefing.Flags) string
	Notification(ctx context.Context, at time.Time) string
}

// Request asks for a new alarm. Time uses wallclock.Layout.
type Request struct {
	Title   string `json:"title"`
	Time    string `json:"time"`
	Weather bool   `json:"weather"`
	News    bool   `json:"news"`
}

// Report summarises one tick.
type Report struct {
	TickID   string   `json:"tick_id"`
	At       string   `json:"at"`
	Fired    []string `json:"fired"`
	Armed    int      `json:"armed"`
	Notified bool     `json:"notified"`
}

// Overview is what a client renders.
type Overview struct {
	Notifications []briefing.Notification `json:"notifications"`
	Fired         []briefing.Alarm        `json:"fired_alarms"`
	Pending       []briefing.Alarm        `json:"pending_alarms"`
}

type Scheduler struct {
	// mu serialises every state transition, timer callbacks included.
	mu sync.Mutex

	store    *store.Store
	composer Composer
	speaker  speech.Speaker
	daily    *Daily
	clock    Clock
	log      *logger.Logger

	afterFunc    AfterFunc
	workers      int
	speakTimeout time.Duration

	// spoken queues the Speak intents of committed transitions until mu is
	// released.
	spoken []string

	timersMu sync.Mutex
	timers   map[int]armed
	closed   bool

	// ctx is used by timer callbacks and is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
}

func New(st *store.Store, composer Composer, l *logger.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		store:        st,
		composer:     composer,
		speaker:      speech.Nop{},
		clock:        systemClock{},
		log:          l.Component("scheduler"),
		afterFunc:    realAfterFunc,
		workers:      _defaultWorkers,
		speakTimeout: _defaultSpeakTimeout,
		timers:       make(map[int]armed),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick fires every due pending alarm in (time, id) order, arms a timer for
// every other pending alarm and adds the daily notification when its minute
// has come. Failing alarms do not stop the others; their errors are joined.
// Cancelling ctx does not abort the tick: bodies are stored for good, so only
// the composer's own timeout bounds the fetches.
func (s *Scheduler) Tick(ctx context.Context) (Report, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	tickID := uuid.NewString()
	log := s.log.With("tick_id", tickID)

	s.mu.Lock()
	defer s.unlock()

	now := s.clock.Now()
	report := Report{TickID: tickID, At: wallclock.Format(now), Fired: []string{}}

	var due []briefing.Alarm
	for _, a := range s.store.Snapshot().PendingByDue() {
		if !a.Due(now) {
			s.arm(a.ID, a.ScheduledAt, now)
			report.Armed++
			continue
		}
		due = append(due, a)
	}

	var errs []error
	for i, body := range s.composeAll(ctx, due) {
		fired, err := s.fire(ctx, due[i], body, triggerTick)
		if err != nil {
			log.Error("fire alarm", "id", due[i].ID, "title", due[i].Title, logger.Err(err))
			errs = append(errs, fmt.Errorf("alarm %q: %w", due[i].Title, err))
			continue
		}
		if fired {
			report.Fired = append(report.Fired, due[i].Title)
		}
	}

	if s.daily != nil && s.daily.Due(now) {
		added, err := s.ensureDaily(ctx, now)
		if err != nil {
			log.Error("daily notification", logger.Err(err))
			errs = append(errs, fmt.Errorf("daily notification: %w", err))
		}
		report.Notified = added
	}

	err := errors.Join(errs...)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveTick(result, time.Since(start))
	log.Debug("tick done", "fired", len(report.Fired), "armed", report.Armed, "notified", report.Notified)

	return report, err
}

// composeAll builds the bodies of alarms concurrently. Bodies are returned in
// the order of alarms.
func (s *Scheduler) composeAll(ctx context.Context, alarms []briefing.Alarm) []string {
	bodies := make([]string, len(alarms))
	if len(alarms) == 0 {
		return bodies
	}

	var eg errgroup.Group
	eg.SetLimit(s.workers)
	for i, a := range alarms {
		eg.Go(func() error {
			bodies[i] = s.composer.Compose(ctx, a.ScheduledAt, a.Flags())
			return nil
		})
	}
	_ = eg.Wait()

	return bodies
}

// fire moves a pending alarm to the fired collection. It reports false when
// the alarm was no longer pending.
func (s *Scheduler) fire(ctx context.Context, a briefing.Alarm, body, trigger string) (bool, error) {
	intents, err := s.store.Apply(ctx, "fire", func(st *briefing.State) []briefing.Intent {
		_, in := st.Fire(a.ID, body)
		return in
	})
	if err != nil {
		return false, err
	}
	if len(intents) == 0 {
		return false, nil
	}

	metrics.IncAlarmFired(trigger)
	s.log.Info("alarm fired", "id", a.ID, "title", a.Title, "trigger", trigger)
	s.execute(intents)
	return true, nil
}

// execute performs the side effects of a committed transition. Speech is
// queued for unlock. Callers hold mu.
func (s *Scheduler) execute(intents []briefing.Intent) {
	now := s.clock.Now()
	for _, in := range intents {
		switch in.Kind {
		case briefing.IntentArm:
			s.arm(in.AlarmID, in.At, now)
		case briefing.IntentDisarm:
			s.disarm(in.AlarmID)
		case briefing.IntentSpeak:
			s.spoken = append(s.spoken, in.Text)
		}
	}
}

// unlock releases mu, then speaks the queued texts in order.
func (s *Scheduler) unlock() {
	texts := s.spoken
	s.spoken = nil
	s.mu.Unlock()

	for _, text := range texts {
		s.speak(text)
	}
}

func (s *Scheduler) speak(text string) {
	ctx, cancel := context.WithTimeout(s.ctx, s.speakTimeout)
	defer cancel()

	if err := s.speaker.Speak(ctx, text); err != nil {
		s.log.Warn("speak", "text", text, logger.Err(err))
	}
}

// onTimer runs when the timer armed for alarm id at at expires.
func (s *Scheduler) onTimer(id int, at time.Time) {
	s.mu.Lock()
	defer s.unlock()

	s.release(id, at)
	if s.ctx.Err() != nil {
		return
	}

	a, ok := s.store.Snapshot().PendingByID(id)
	if !ok {
		return
	}

	if now := s.clock.Now(); !a.Due(now) {
		s.arm(a.ID, a.ScheduledAt, now)
		return
	}

	body := s.composer.Compose(s.ctx, a.ScheduledAt, a.Flags())
	if _, err := s.fire(s.ctx, a, body, triggerTimer); err != nil {
		s.log.Error("fire alarm", "id", a.ID, "title", a.Title, logger.Err(err))
	}
}

// CreateAlarm adds an alarm. It reports false together with the existing
// alarm when the title is already taken. An alarm that is already due fires
// before CreateAlarm returns, whether or not ctx is cancelled meanwhile.
//
// Titles are the bare label, so a label stays taken while an alarm carrying
// it is pending or fired: a second alarm with the same label at another time
// is reported as a duplicate until the first one is dismissed.
func (s *Scheduler) CreateAlarm(ctx context.Context, req Request) (briefing.Alarm, bool, error) {
	ctx = context.WithoutCancel(ctx)
	at, err := wallclock.Parse(req.Time)
	if err != nil {
		metrics.IncAlarmCreated(metrics.ResultError)
		return briefing.Alarm{}, false, briefing.Wrap(err, briefing.ErrInvalid, fmt.Sprintf("invalid alarm time %q", req.Time))
	}
	flags := briefing.Flags{Weather: req.Weather, News: req.News}

	s.mu.Lock()
	defer s.unlock()

	var alarm briefing.Alarm
	intents, err := s.store.Apply(ctx, "create", func(st *briefing.State) []briefing.Intent {
		title := briefing.AlarmTitle(req.Title, st.NextID)
		a, in := st.AddAlarm(title, at, flags, briefing.UpcomingBody(at, flags))
		alarm = a
		return in
	})
	if err != nil {
		metrics.IncAlarmCreated(metrics.ResultError)
		return briefing.Alarm{}, false, err
	}
	if len(intents) == 0 {
		metrics.IncAlarmCreated("duplicate")
		s.log.Info("duplicate alarm ignored", "title", alarm.Title)
		return alarm, false, nil
	}
	metrics.IncAlarmCreated(metrics.ResultSuccess)
	s.log.Info("alarm created", "id", alarm.ID, "title", alarm.Title, "at", wallclock.Format(at))

	if s.clock.Now().Before(at) {
		s.execute(intents)
		return alarm, true, nil
	}

	body := s.composer.Compose(ctx, at, flags)
	if _, err := s.fire(ctx, alarm, body, triggerCreate); err != nil {
		return alarm, true, err
	}
	alarm.Body = body
	return alarm, true, nil
}

// DismissAlarm removes the alarm titled title, fired ones first. It reports
// whether an alarm was removed.
func (s *Scheduler) DismissAlarm(ctx context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.unlock()

	intents, err := s.store.Apply(ctx, "dismiss_alarm", func(st *briefing.State) []briefing.Intent {
		_, in := st.DismissAlarm(title)
		return in
	})
	if err != nil {
		return false, err
	}
	s.execute(intents)
	return len(intents) > 0, nil
}

// DismissNotification removes the notification titled title.
func (s *Scheduler) DismissNotification(ctx context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := s.store.Apply(ctx, "dismiss_notification", func(st *briefing.State) []briefing.Intent {
		return st.DismissNotification(title)
	})
	if err != nil {
		return false, err
	}
	return len(intents) > 0, nil
}

// EnsureDailyNotification adds the notification for now's date unless it
// already exists. Existing notifications are detected before any fetch.
// Like Tick, it is not aborted by cancelling ctx.
func (s *Scheduler) EnsureDailyNotification(ctx context.Context, now time.Time) (bool, error) {
	ctx = context.WithoutCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureDaily(ctx, now)
}

func (s *Scheduler) ensureDaily(ctx context.Context, now time.Time) (bool, error) {
	title := briefing.DailyTitle(now)
	if s.store.Snapshot().HasNotification(title) {
		return false, nil
	}

	n := briefing.Notification{
		Title: title,
		Body:  s.composer.Notification(ctx, now),
	}
	added, err := s.addNotification(ctx, n, kindDaily)
	if err == nil && added && s.daily != nil {
		s.log.Info("daily notification added", "title", title, "next", wallclock.Format(s.daily.Next(now)))
	}
	return added, err
}

// Welcome adds n unless a notification with its title exists.
func (s *Scheduler) Welcome(ctx context.Context, n briefing.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addNotification(ctx, n, kindWelcome)
}

func (s *Scheduler) addNotification(ctx context.Context, n briefing.Notification, kind string) (bool, error) {
	intents, err := s.store.Apply(ctx, "notify_"+kind, func(st *briefing.State) []briefing.Intent {
		return st.AddNotification(n)
	})
	if err != nil {
		return false, err
	}
	if len(intents) == 0 {
		return false, nil
	}
	metrics.IncNotification(kind)
	return true, nil
}

// Reset clears every alarm and notification and restarts ids at zero.
func (s *Scheduler) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	intents, err := s.store.Reset(ctx)
	if err != nil {
		return err
	}
	s.execute(intents)
	s.log.Info("state reset")
	return nil
}

// List returns the current collections, pending alarms in firing order.
func (s *Scheduler) List() Overview {
	st := s.store.Snapshot()
	return Overview{
		Notifications: st.Notifications,
		Fired:         st.Fired,
		Pending:       st.PendingByDue(),
	}
}

// Run ticks once immediately, which re-arms the timers of alarms persisted
// by a previous run, then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, every time.Duration) {
	tick := func() {
		if _, err := s.Tick(ctx); err != nil {
			s.log.Error("tick", logger.Err(err))
		}
	}

	tick()
	if every <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
