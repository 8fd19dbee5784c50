package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named background task.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// NewScheduler registers every job on spec. Each run gets its own timeout and
// failures are logged, never fatal. An empty spec disables scheduling.
func NewScheduler(spec string, timeout time.Duration, log *zap.Logger, jobs ...Job) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))
	if spec == "" {
		return c, nil
	}

	for _, job := range jobs {
		job := job
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			RunJob(ctx, log, job)
		})
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", job.Name, err)
		}
	}
	return c, nil
}

// RunJob runs job once and logs the outcome.
func RunJob(ctx context.Context, log *zap.Logger, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error("job failed", zap.String("job", job.Name), zap.Error(err))
		return
	}
	log.Debug("job finished", zap.String("job", job.Name), zap.Duration("took", time.Since(start)))
}
