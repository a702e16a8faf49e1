package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled    bool          `toml:"enabled"`
	BackupHour uint          `toml:"backup_hour"`
	DigestHour uint          `toml:"digest_hour"`
	Timeout    time.Duration `toml:"timeout"`
}

// Scheduler runs daily background tasks in UTC.
type Scheduler struct {
	s       gocron.Scheduler
	jobs    map[string]gocron.Job
	timeout time.Duration
	log     *logrus.Entry
}

func New(l *logrus.Logger, cfg Config) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		s:       s,
		jobs:    make(map[string]gocron.Job),
		timeout: timeout,
		log: l.WithFields(map[string]interface{}{
			"from": "scheduler",
		}),
	}, nil
}

// AddDaily registers fn to run every day at hour:00 UTC.
func (s *Scheduler) AddDaily(name string, hour uint, fn func(ctx context.Context) error) error {
	j, err := s.s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(hour, 0, 0),
			),
		),
		gocron.NewTask(s.task(name, fn)),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	s.jobs[name] = j
	return nil
}

func (s *Scheduler) task(name string, fn func(ctx context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		log := s.log.WithField("job", name)
		start := time.Now()
		if err := fn(ctx); err != nil {
			log.WithError(err).Error("job failed")
			return
		}
		log.WithField("took", time.Since(start)).Info("job done")
	}
}

// RunNow triggers the job registered as name outside of its schedule.
func (s *Scheduler) RunNow(name string) error {
	j, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return j.RunNow()
}

func (s *Scheduler) Start() {
	s.s.Start()
	s.log.WithField("jobs", len(s.jobs)).Info("scheduler started")
}

func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
