package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Job names as registered with the scheduler.
const (
	JobUpdateRoomAvailability = "update-room-availability"
	JobExpireBookings         = "expire-bookings"
	JobRefreshStatistics      = "refresh-statistics"
)

const jobTimeout = 10 * time.Minute

// Scheduler runs the maintenance jobs on their calendar: room reconciliation
// daily at 00:00, pending expiry daily at 01:00 and statistics every Monday
// at 02:00.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// NewScheduler registers every job for runner in loc.
func NewScheduler(runner *Runner, loc *time.Location, logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	sched := &Scheduler{scheduler: s, logger: logger}

	defs := []struct {
		name string
		def  gocron.JobDefinition
		run  func(ctx context.Context) (int, error)
	}{
		{
			name: JobUpdateRoomAvailability,
			def:  gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, 0))),
			run:  runner.UpdateRoomAvailability,
		},
		{
			name: JobExpireBookings,
			def:  gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(1, 0, 0))),
			run: func(ctx context.Context) (int, error) {
				return runner.ExpireStaleBookings(ctx)
			},
		},
		{
			name: JobRefreshStatistics,
			def:  gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
			run: func(ctx context.Context) (int, error) {
				return runner.RefreshStatistics(ctx, nil)
			},
		},
	}

	for _, d := range defs {
		if _, err := s.NewJob(d.def,
			gocron.NewTask(sched.wrap(d.name, d.run)),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("schedule %s: %w", d.name, err)
		}
	}
	return sched, nil
}

func (s *Scheduler) wrap(name string, run func(ctx context.Context) (int, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		n, err := run(ctx)
		if err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job finished",
			zap.String("job", name),
			zap.Int("affected", n),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.logger.Info("job scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
}

// JobNames lists the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name()
	}
	return names
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}
