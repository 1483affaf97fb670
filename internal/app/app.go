package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/bulletin"
	"github.com/Raimguhinov/briefing-go/internal/config"
	"github.com/Raimguhinov/briefing-go/internal/fetcher"
	"github.com/Raimguhinov/briefing-go/internal/observability/metrics"
	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/Raimguhinov/briefing-go/internal/provider/covid"
	"github.com/Raimguhinov/briefing-go/internal/provider/news"
	"github.com/Raimguhinov/briefing-go/internal/provider/weather"
	"github.com/Raimguhinov/briefing-go/internal/scheduler"
	"github.com/Raimguhinov/briefing-go/internal/speech"
	"github.com/Raimguhinov/briefing-go/internal/store"
	"github.com/Raimguhinov/briefing-go/pkg/httpserver"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

func Run(cfg *config.Config) {
	l := logger.New(cfg.Log.Level, cfg.App.Env)
	l.Info("starting", "name", cfg.App.Name, "version", cfg.App.Version, "env", cfg.App.Env)

	metrics.Init(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repository
	repo, err := store.NewFromURL(ctx, cfg.Storage.URL, store.Options{PoolMax: cfg.PG.PoolMax}, l)
	if err != nil {
		l.Error("app - Run - store.NewFromURL", logger.Err(err))
		os.Exit(1)
	}
	st, err := store.Open(ctx, repo, l)
	if err != nil {
		_ = repo.Close()
		l.Error("app - Run - store.Open", logger.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error("app - Run - store.Close", logger.Err(err))
		}
	}()

	// Scheduler
	sched, daily, err := newScheduler(cfg, st, l)
	if err != nil {
		l.Error("app - Run - newScheduler", logger.Err(err))
		os.Exit(1)
	}
	defer sched.Close()

	welcome := briefing.Welcome(cfg.Briefing.Region, daily.Hour(), daily.Minute())
	if _, err := sched.Welcome(ctx, welcome); err != nil {
		l.Error("app - Run - sched.Welcome", logger.Err(err))
	}
	go sched.Run(ctx, cfg.Scheduler.TickInterval)

	// HTTP Server
	router := SetupRouter(l, sched, daily, cfg)
	httpServer := httpserver.New(router,
		httpserver.Addr(cfg.HTTP.IP, cfg.HTTP.Port),
		httpserver.ReadTimeout(cfg.HTTP.Timeout),
		httpserver.WriteTimeout(cfg.HTTP.Timeout),
		httpserver.IdleTimeout(cfg.HTTP.IdleTimout),
	)
	l.Info("http server started", "addr", cfg.HTTP.IP+":"+cfg.HTTP.Port)

	// Waiting signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: " + s.String())
	case err = <-httpServer.Notify():
		l.Error("app - Run - httpServer.Notify", logger.Err(err))
	}

	// Shutdown
	cancel()
	err = httpServer.Shutdown()
	if err != nil {
		l.Error("app - Run - httpServer.Shutdown", logger.Err(err))
	}
}

func newScheduler(cfg *config.Config, st *store.Store, l *logger.Logger) (*scheduler.Scheduler, *scheduler.Daily, error) {
	opts := provider.Options{
		Timeout: cfg.Providers.Timeout,
		Retries: cfg.Providers.Retries,
	}

	infection := fetcher.NewInfectionRate(
		covid.New(cfg.Providers.CovidURL, opts), cfg.Briefing.Region, l, time.Now)
	forecast := fetcher.NewWeather(
		weather.New(cfg.Providers.WeatherURL, cfg.Providers.WeatherAPIKey, opts), cfg.Briefing.WeatherCity, l, time.Now)
	headlines := fetcher.NewNews(
		news.New(cfg.Providers.NewsURL, cfg.Providers.NewsAPIKey, opts), cfg.Briefing.NewsCountry, l, time.Now)

	composer := bulletin.New(infection, forecast, headlines, bulletin.Timeout(cfg.Scheduler.ComposeTimeout))

	daily, err := scheduler.NewDaily(cfg.Scheduler.NotificationHour, cfg.Scheduler.NotificationMinute)
	if err != nil {
		return nil, nil, fmt.Errorf("app - newScheduler - scheduler.NewDaily: %w", err)
	}

	sched := scheduler.New(st, composer, l,
		scheduler.WithDaily(daily),
		scheduler.WithSpeaker(speech.New(cfg.Speech.Command)),
		scheduler.WithComposeWorkers(cfg.Scheduler.ComposeWorkers),
	)
	return sched, daily, nil
}
