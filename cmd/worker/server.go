package main

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/portfolio/job"
	"portfolio-backend/pkg/container"
)

type asynqServer struct {
	*asynq.Server
}

func startAsynqServer(c *container.Container) *asynqServer {
	mux := asynq.NewServeMux()

	reconcile := job.NewReconcileBlobsJob(c.PortfolioRepo, c.Storage, c.Config.Sweep.GracePeriod)
	mux.Handle(job.TypeReconcileBlobs, reconcile)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: c.Config.Redis.Host},
		asynq.Config{
			Queues: map[string]int{
				"default": 10,
				"low":     5,
			},
			Concurrency: 5,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().Err(err).Str("type", task.Type()).Msg("task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("worker starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Info().Msg("stopping task server")
	s.Server.Shutdown()
}
