package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/infrastructure/persistence"
)

// ScheduleStore persists deferred reconciliation checks. The unique
// constraint on (order_id, kind) makes re-scheduling an upsert.
type ScheduleStore struct {
	db persistence.Executor
}

func NewScheduleStore(db persistence.Executor) *ScheduleStore {
	return &ScheduleStore{db: db}
}

func (s *ScheduleStore) Schedule(ctx context.Context, check application.ScheduledCheck) error {
	query := `
		INSERT INTO scheduled_checks (order_id, kind, run_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (order_id, kind) DO UPDATE SET run_at = EXCLUDED.run_at
	`

	m := toScheduledCheckModel(check)
	_, err := s.db.Exec(ctx, query, m.OrderID, m.Kind, m.RunAt)
	if err != nil {
		return fmt.Errorf("failed to schedule check: %w", err)
	}

	return nil
}

func (s *ScheduleStore) Cancel(ctx context.Context, orderID, kind string) error {
	query := `DELETE FROM scheduled_checks WHERE order_id = $1 AND kind = $2`

	if _, err := s.db.Exec(ctx, query, orderID, kind); err != nil {
		return fmt.Errorf("failed to cancel check: %w", err)
	}

	return nil
}

func (s *ScheduleStore) FindDue(ctx context.Context, now time.Time, limit int) ([]application.ScheduledCheck, error) {
	query := `
		SELECT order_id, kind, run_at
		FROM scheduled_checks
		WHERE run_at <= $1
		ORDER BY run_at ASC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due checks: %w", err)
	}
	defer rows.Close()

	var due []application.ScheduledCheck
	for rows.Next() {
		var m ScheduledCheckModel
		if err := rows.Scan(&m.OrderID, &m.Kind, &m.RunAt); err != nil {
			return nil, err
		}
		due = append(due, toScheduledCheck(m))
	}

	return due, rows.Err()
}
