package worker

import (
	"context"

	"go-booking-api/core/config"
	"go-booking-api/core/constants"
	"go-booking-api/core/logger"
	bookingservice "go-booking-api/modules/booking/service"

	"github.com/hibiken/asynq"
)

// Worker runs the expiry reaper on a schedule. The sweep itself lives in the
// booking service; this only provides the periodic trigger (operators can
// also fire it through the admin endpoint).
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// New wires the sweep task. Returns nil when redis is not configured; the
// admin endpoint then remains the only trigger.
func New(cfg *config.Config, bookingSvc bookingservice.BookingServiceInterface) *Worker {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis not configured, background sweep disabled")
		return nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskSweepExpired, func(ctx context.Context, t *asynq.Task) error {
		expired, appErr := bookingSvc.SweepExpired(ctx)
		if appErr != nil {
			return appErr
		}
		if len(expired) > 0 {
			logger.Info("Worker:SweepExpired", "expired_count", len(expired))
		}
		return nil
	})

	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register(cfg.Booking.SweepInterval, asynq.NewTask(constants.TaskSweepExpired, nil)); err != nil {
		logger.Error("Failed to register sweep schedule", "interval", cfg.Booking.SweepInterval, "error", err)
		return nil
	}

	return &Worker{
		server:    server,
		scheduler: scheduler,
		mux:       mux,
	}
}

func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return err
	}
	logger.Info("Background worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}
