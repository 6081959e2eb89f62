package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/domains/portfolio/job"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	sweepCfg  config.SweepConfig
}

func NewScheduler(redisAddress string, sweepCfg config.SweepConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		sweepCfg:  sweepCfg,
	}
}

// RegisterJobs enqueues the recurring maintenance tasks.
func (s *Scheduler) RegisterJobs() error {
	task := asynq.NewTask(job.TypeReconcileBlobs, nil)
	entryID, err := s.scheduler.Register(s.sweepCfg.Cron, task, asynq.Queue("low"))
	if err != nil {
		return fmt.Errorf("failed to register blob reconcile job: %w", err)
	}

	log.Info().
		Str("entry_id", entryID).
		Str("cron", s.sweepCfg.Cron).
		Msg("registered blob reconcile job")
	return nil
}

func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
