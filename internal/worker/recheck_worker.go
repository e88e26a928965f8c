// Package worker runs the scheduled reconciliation loop that settles
// orders left waiting on asynchronous authorization decisions.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/monitor"
)

// PendingChecker resolves one order's pending authorization against the
// provider. The orchestrator implements it.
type PendingChecker interface {
	CheckPendingAuthorization(ctx context.Context, orderID string) error
}

type RecheckWorker struct {
	schedule  application.ScheduleStore
	checker   PendingChecker
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewRecheckWorker(
	schedule application.ScheduleStore,
	checker PendingChecker,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *RecheckWorker {
	return &RecheckWorker{
		schedule:  schedule,
		checker:   checker,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *RecheckWorker) Start(ctx context.Context) {
	w.logger.Info("recheck worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("recheck worker stopping")
			return
		case <-ticker.C:
			if err := w.processDue(ctx); err != nil {
				w.logger.Error("recheck batch failed", "error", err)
			}
		}
	}
}

func (w *RecheckWorker) processDue(ctx context.Context) error {
	due, err := w.schedule.FindDue(ctx, time.Now(), w.batchSize)
	if err != nil {
		return err
	}

	var processed int
	for _, check := range due {
		if check.Kind != application.CheckPendingAuthorization {
			w.logger.Warn("unknown scheduled check kind",
				"order_id", check.OrderID, "kind", check.Kind)
			continue
		}

		if err := w.checker.CheckPendingAuthorization(ctx, check.OrderID); err != nil {
			// The orchestrator already re-scheduled retryable failures;
			// nothing to do here but record it.
			w.logger.Error("pending authorization check failed",
				"order_id", check.OrderID,
				"category", application.CategorizeError(err),
				"retryable", application.IsRetryable(err),
				"error", err)
			monitor.RecheckRuns.WithLabelValues("error").Inc()
			continue
		}
		monitor.RecheckRuns.WithLabelValues("ok").Inc()
		processed++
	}

	if processed > 0 {
		w.logger.Info("processed pending authorization checks", "count", processed)
	}
	return nil
}
