package daemon

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-co-op/gocron/v2"

	"github.com/docwright/docwright/internal/logfields"
)

// scheduler wraps gocron for cron-triggered rebuilds.
type scheduler struct {
	inner gocron.Scheduler
}

func newScheduler() (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &scheduler{inner: s}, nil
}

// AddCron registers task under a cron expression. Six-field expressions get
// second granularity.
func (s *scheduler) AddCron(expr, name string, task func()) error {
	withSeconds := len(strings.Fields(expr)) == 6
	job, err := s.inner.NewJob(
		gocron.CronJob(expr, withSeconds),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	slog.Info("Scheduled periodic rebuild",
		logfields.ScheduleName(name),
		slog.String("cron", expr),
		slog.String("job_id", job.ID().String()))
	return nil
}

func (s *scheduler) Start() { s.inner.Start() }

func (s *scheduler) Stop() {
	if err := s.inner.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown", logfields.Error(err))
	}
}
