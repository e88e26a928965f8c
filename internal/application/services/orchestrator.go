// Package services holds the payment orchestrator: the application flows
// that drive an order's Amazon Pay lifecycle against the provider client,
// persistence, scheduling, and buyer notification ports.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/amazon"
	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
)

// pendingRecheckDelay is how long after a Pending or timed-out
// authorization the state is re-checked.
const pendingRecheckDelay = time.Hour

// asyncTimeoutMins is the provider-side decision window requested for
// deferred authorizations.
const asyncTimeoutMins = 1440

type Orchestrator struct {
	orders   application.OrderRepository
	notes    application.NoteStore
	schedule application.ScheduleStore
	clients  amazon.Selector
	notifier application.Notifier
	settings application.MerchantSettings
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrchestrator(
	orders application.OrderRepository,
	notes application.NoteStore,
	schedule application.ScheduleStore,
	clients amazon.Selector,
	notifier application.Notifier,
	settings application.MerchantSettings,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		notes:    notes,
		schedule: schedule,
		clients:  clients,
		notifier: notifier,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Orchestrator) client(order *domain.OrderPayment) amazon.Client {
	return s.clients.For(order.APIVersion)
}

// note appends an audit entry, logging rather than failing the operation
// when the note store is unavailable.
func (s *Orchestrator) note(ctx context.Context, orderID, text string) {
	if err := s.notes.Add(ctx, orderID, text); err != nil {
		s.logger.Warn("failed to record order note", "order_id", orderID, "error", err)
	}
}

func (s *Orchestrator) scheduleRecheck(ctx context.Context, orderID string) {
	err := s.schedule.Schedule(ctx, application.ScheduledCheck{
		OrderID: orderID,
		Kind:    application.CheckPendingAuthorization,
		RunAt:   s.now().Add(pendingRecheckDelay),
	})
	if err != nil {
		s.logger.Error("failed to schedule authorization re-check", "order_id", orderID, "error", err)
	}
}

func (s *Orchestrator) cancelRecheck(ctx context.Context, orderID string) {
	if err := s.schedule.Cancel(ctx, orderID, application.CheckPendingAuthorization); err != nil {
		s.logger.Warn("failed to cancel scheduled re-check", "order_id", orderID, "error", err)
	}
}

// authorizationReferenceID builds the merchant-side reference for one
// authorization attempt. Attempts after a timeout get a fresh suffix so
// the provider does not dedupe the retry.
func authorizationReferenceID(orderID string, attempt int) string {
	return fmt.Sprintf("%s-A%02d", orderID, attempt)
}

func captureReferenceID(orderID string) string {
	return fmt.Sprintf("%s-C%02d", orderID, 1)
}

func refundReferenceID(orderID string, seq int) string {
	return fmt.Sprintf("%s-R%02d", orderID, seq)
}
