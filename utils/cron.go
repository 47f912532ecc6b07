package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Job is one scheduled task. At is a daily HH:MM in the scheduler location.
type Job struct {
	Name    string
	At      string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// NewScheduler registers jobs on a gocron scheduler running in loc. The
// caller starts it with StartAsync and stops it on shutdown.
func NewScheduler(loc *time.Location, jobs ...Job) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	for _, j := range jobs {
		if _, err := s.Every(1).Day().At(j.At).Tag(j.Name).Do(RunJob(j)); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", j.Name, err)
		}
		log.Info().Str("job", j.Name).Str("at", j.At).Str("tz", loc.String()).Msg("job scheduled")
	}
	return s, nil
}

// RunJob wraps a job with a timeout and start/finish logging.
func RunJob(j Job) func() {
	return func() {
		timeout := j.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Minute
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		log.Info().Str("job", j.Name).Msg("job started")
		if err := j.Run(ctx); err != nil {
			log.Error().Err(err).Str("job", j.Name).Dur("took", time.Since(start)).Msg("job failed")
			return
		}
		log.Info().Str("job", j.Name).Dur("took", time.Since(start)).Msg("job completed")
	}
}
