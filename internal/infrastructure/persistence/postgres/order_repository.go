package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/commercekit/amazonpay-gateway/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderColumns = `
	order_id, total, currency, region, api_version, status,
	reference_id, authorization_id, capture_id,
	reference_state, authorization_state, capture_state,
	charge_permission_id, charge_id,
	buyer_email, timed_out, timed_out_times,
	created_at, updated_at`

type OrderRepository struct {
	db persistence.Executor
}

func NewOrderRepository(db persistence.Executor) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.OrderPayment) error {
	query := `
		INSERT INTO order_payments (
			order_id, total, currency, region, api_version, status,
			reference_id, authorization_id, capture_id,
			reference_state, authorization_state, capture_state,
			charge_permission_id, charge_id,
			buyer_email, timed_out, timed_out_times,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	m := toDBModel(order)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	_, err := r.db.Exec(ctx, query,
		m.OrderID,
		m.Total,
		m.Currency,
		m.Region,
		m.APIVersion,
		m.Status,
		m.ReferenceID,
		m.AuthorizationID,
		m.CaptureID,
		m.ReferenceState,
		m.AuthorizationState,
		m.CaptureState,
		m.ChargePermissionID,
		m.ChargeID,
		m.BuyerEmail,
		m.TimedOut,
		m.TimedOutTimes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order payment: %w", err)
	}

	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (*domain.OrderPayment, error) {
	query := `SELECT ` + orderColumns + ` FROM order_payments WHERE order_id = $1`

	row := r.db.QueryRow(ctx, query, orderID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewOrderNotFoundError(orderID)
	}
	return order, err
}

func (r *OrderRepository) FindByReferenceID(ctx context.Context, referenceID string) (*domain.OrderPayment, error) {
	query := `SELECT ` + orderColumns + ` FROM order_payments
		WHERE reference_id = $1 OR charge_permission_id = $1`

	row := r.db.QueryRow(ctx, query, referenceID)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewOrderNotFoundError(referenceID)
	}
	return order, err
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.OrderPayment) error {
	query := `
		UPDATE order_payments SET
			status = $2,
			reference_id = $3,
			authorization_id = $4,
			capture_id = $5,
			reference_state = $6,
			authorization_state = $7,
			capture_state = $8,
			charge_permission_id = $9,
			charge_id = $10,
			buyer_email = $11,
			timed_out = $12,
			timed_out_times = $13,
			updated_at = $14
		WHERE order_id = $1
	`

	m := toDBModel(order)
	tag, err := r.db.Exec(ctx, query,
		m.OrderID,
		m.Status,
		m.ReferenceID,
		m.AuthorizationID,
		m.CaptureID,
		m.ReferenceState,
		m.AuthorizationState,
		m.CaptureState,
		m.ChargePermissionID,
		m.ChargeID,
		m.BuyerEmail,
		m.TimedOut,
		m.TimedOutTimes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to update order payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(order.OrderID)
	}

	return nil
}

func (r *OrderRepository) AddRefund(ctx context.Context, orderID string, refund domain.Refund) error {
	query := `
		INSERT INTO order_refunds (id, order_id, refund_id, amount, currency, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	m := toRefundModel(orderID, refund)
	_, err := r.db.Exec(ctx, query,
		uuid.New().String(),
		m.OrderID,
		m.RefundID,
		m.Amount,
		m.Currency,
		m.Note,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record refund: %w", err)
	}

	return nil
}

func (r *OrderRepository) RefundedTotal(ctx context.Context, orderID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM order_refunds WHERE order_id = $1`

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, orderID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum refunds: %w", err)
	}

	return total, nil
}

func scanOrder(row pgx.Row) (*domain.OrderPayment, error) {
	var m OrderPaymentModel
	err := row.Scan(
		&m.OrderID,
		&m.Total,
		&m.Currency,
		&m.Region,
		&m.APIVersion,
		&m.Status,
		&m.ReferenceID,
		&m.AuthorizationID,
		&m.CaptureID,
		&m.ReferenceState,
		&m.AuthorizationState,
		&m.CaptureState,
		&m.ChargePermissionID,
		&m.ChargeID,
		&m.BuyerEmail,
		&m.TimedOut,
		&m.TimedOutTimes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return toDomainModel(m), nil
}
