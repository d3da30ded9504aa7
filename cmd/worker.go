package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tracker/internal/app"
	"tracker/internal/tasks"
	"tracker/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background job worker",
	Long:  `Starts the Asynq worker process that classifies new issues, fans out watcher notifications, delivers emails, and sweeps for overdue issues on a schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application context: %w", err)
		}
		return runWorker(appInstance)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(appInstance *app.App) error {
	cfg := appInstance.Config
	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required to run the worker")
	}

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      cfg.Worker.Queues,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithFields(log.Fields{
					"type":    task.Type(),
					"payload": string(task.Payload()),
				}).WithError(err).Error("task failed")
			}),
		},
	)

	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, worker.Deps{
		Classification: appInstance.ClassificationService,
		Notifications:  appInstance.NotificationService,
		Overdue:        appInstance.OverdueService,
		Metrics:        appInstance.Metrics,
	})

	// The overdue sweep is enqueued through the same queue the workers
	// consume, so a multi-worker deployment still runs it once per tick
	// per scheduler instance.
	scheduler := cron.New()
	client := asynq.NewClient(redisOpts)
	defer client.Close()
	if _, err := scheduler.AddFunc(cfg.Worker.OverdueSchedule, func() {
		if _, err := client.Enqueue(tasks.NewOverdueSweepTask()); err != nil {
			log.WithError(err).Error("failed to enqueue overdue sweep")
		}
	}); err != nil {
		return fmt.Errorf("invalid overdue schedule %q: %w", cfg.Worker.OverdueSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Infof("Starting worker (concurrency: %d, queues: %v, overdue schedule: %s)",
		cfg.Worker.Concurrency, cfg.Worker.Queues, cfg.Worker.OverdueSchedule)
	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start worker server: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Info("Shutdown signal received, draining worker...")
	srv.Stop()
	srv.Shutdown()
	log.Info("Worker shutdown complete.")
	return nil
}
