package worker

import (
	"context"
	"time"

	"eventify/pkg/logger"

	"go.uber.org/zap"
)

// EventCompleter 由 repository.EventRepository 實作
type EventCompleter interface {
	CompleteEnded(ctx context.Context, now time.Time) (int, error)
}

// EventCompletionWorker 定期把已過結束時間的 published 活動轉為 completed
type EventCompletionWorker interface {
	Start(ctx context.Context)
}

type EventCompletionWorkerImpl struct {
	repo     EventCompleter
	interval time.Duration
}

func NewEventCompletionWorker(repo EventCompleter, interval time.Duration) EventCompletionWorker {
	return &EventCompletionWorkerImpl{
		repo:     repo,
		interval: interval,
	}
}

func (w *EventCompletionWorkerImpl) Start(ctx context.Context) {
	log := logger.WithComponent("event_completion_worker")

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("worker stopped")
				return
			case <-ticker.C:
				w.sweep(ctx, log)
			}
		}
	}()
}

func (w *EventCompletionWorkerImpl) sweep(ctx context.Context, log *zap.Logger) {
	completed, err := w.repo.CompleteEnded(ctx, time.Now())
	if err != nil {
		log.Error("failed to complete ended events", zap.Error(err))
		return
	}

	if completed > 0 {
		log.Info("completed ended events", zap.Int("count", completed))
	}
}
