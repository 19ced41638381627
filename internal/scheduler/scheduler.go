package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/astro"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/tide"
	"github.com/camano/tidewatch/internal/weather"
)

const jobTimeout = 30 * time.Second

// Scheduler keeps the tide, weather and astronomy caches warm by
// refreshing each on its own interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       *config.Config
	tides     *tide.Service
	weather   *weather.Service
	astronomy *astro.Service
}

// New creates a Scheduler for the given services.
func New(cfg *config.Config, tides *tide.Service, wx *weather.Service, astronomy *astro.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cfg:       cfg,
		tides:     tides,
		weather:   wx,
		astronomy: astronomy,
	}
}

// Start registers the refresh jobs and starts the scheduler in the
// background. Each job runs immediately on startup so the first
// request never waits on an upstream fetch.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name     string
		interval time.Duration
		run      func(context.Context) error
	}{
		{"tide", s.cfg.TideRefreshInterval, func(ctx context.Context) error {
			_, err := s.tides.GetAllTideData(ctx)
			return err
		}},
		{"weather", s.cfg.WeatherRefreshInterval, func(ctx context.Context) error {
			_, err := s.weather.GetWeather(ctx)
			return err
		}},
		{"astronomy", s.cfg.AstronomyRefreshInterval, func(ctx context.Context) error {
			_, err := s.astronomy.GetAstronomyData(ctx)
			return err
		}},
	}

	for _, job := range jobs {
		job := job
		_, err := s.scheduler.Every(job.interval).StartImmediately().Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			start := time.Now()
			if err := job.run(ctx); err != nil {
				log.Warn().
					Err(err).
					Str("job", job.name).
					Msg("Refresh job failed")
				return
			}
			log.Debug().
				Str("job", job.name).
				Dur("duration", time.Since(start)).
				Msg("Refresh job completed")
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
