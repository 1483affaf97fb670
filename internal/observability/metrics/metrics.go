package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "briefing_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	alarmsCreated       *prometheus.CounterVec
	alarmsFired         *prometheus.CounterVec
	notificationsAdded  *prometheus.CounterVec
	fetchOutcomes       *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	tickLatency         *prometheus.HistogramVec
	armedTimers         prometheus.Gauge
)

// Init registers the collectors with reg, or the default registerer when reg
// is nil. Recording functions are no-ops until Init has run.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		alarmsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarms_created_total",
				Help: "Alarm creation requests by result",
			},
			[]string{"result"},
		)
		alarmsFired = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarms_fired_total",
				Help: "Alarms moved to the fired collection by trigger",
			},
			[]string{"trigger"},
		)
		notificationsAdded = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_added_total",
				Help: "Notifications appended by kind",
			},
			[]string{"kind"},
		)
		fetchOutcomes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_outcomes_total",
				Help: "Content fetches by fetcher and outcome",
			},
			[]string{"fetcher", "outcome"},
		)
		persistenceFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "persistence_failures_total",
				Help: "Failed state writes by operation",
			},
			[]string{"operation"},
		)
		tickLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "tick_latency_seconds",
				Help:    "Scheduler tick latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		armedTimers = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "armed_timers",
				Help: "One-shot alarm timers currently armed",
			},
		)

		reg.MustRegister(
			alarmsCreated,
			alarmsFired,
			notificationsAdded,
			fetchOutcomes,
			persistenceFailures,
			tickLatency,
			armedTimers,
		)
	})
}

func IncAlarmCreated(result string) {
	if alarmsCreated != nil {
		alarmsCreated.WithLabelValues(result).Inc()
	}
}

func IncAlarmFired(trigger string) {
	if alarmsFired != nil {
		alarmsFired.WithLabelValues(trigger).Inc()
	}
}

func IncNotification(kind string) {
	if notificationsAdded != nil {
		notificationsAdded.WithLabelValues(kind).Inc()
	}
}

func IncFetch(fetcher, outcome string) {
	if fetcher == "" || outcome == "" {
		return
	}
	if fetchOutcomes != nil {
		fetchOutcomes.WithLabelValues(fetcher, outcome).Inc()
	}
}

func IncPersistenceFailure(operation string) {
	if persistenceFailures != nil {
		persistenceFailures.WithLabelValues(operation).Inc()
	}
}

func ObserveTick(result string, duration time.Duration) {
	if tickLatency != nil {
		tickLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func SetArmedTimers(n int) {
	if armedTimers != nil {
		armedTimers.Set(float64(n))
	}
}
