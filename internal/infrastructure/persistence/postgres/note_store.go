package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/commercekit/amazonpay-gateway/internal/infrastructure/persistence"
	"github.com/google/uuid"
)

// NoteStore persists the merchant-visible audit trail.
type NoteStore struct {
	db persistence.Executor
}

func NewNoteStore(db persistence.Executor) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Add(ctx context.Context, orderID, note string) error {
	query := `
		INSERT INTO order_notes (id, order_id, note, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query, uuid.New().String(), orderID, note, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}

	return nil
}

func (s *NoteStore) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderNote, error) {
	query := `
		SELECT id, order_id, note, created_at
		FROM order_notes
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.OrderNote
	for rows.Next() {
		var n domain.OrderNote
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	return notes, rows.Err()
}
