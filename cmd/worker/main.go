// cmd/worker/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/infrastructure/queue"
	"portfolio-backend/pkg/container"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize container: %v\n", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	srv := startAsynqServer(c)

	scheduler := queue.NewScheduler(c.Config.Redis.Host, c.Config.Sweep)
	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("failed to register scheduled jobs")
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatal().Err(err).Msg("scheduler failed")
		}
	}()

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *queue.Scheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("worker shutting down")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("worker stopped")
}
