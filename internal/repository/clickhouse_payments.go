package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/karna-27/bank-lending-system/internal/model"
)

// CHPaymentsRepository stores the payment event stream in ClickHouse for reporting.
type CHPaymentsRepository interface {
	InsertBatch(ctx context.Context, events []model.PaymentEvent) error
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.PaymentEvent, error)
}

type chPaymentsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHPaymentsRepository(ch *sqlx.DB) CHPaymentsRepository {
	return &chPaymentsRepository{ch: ch}
}

// InsertBatch sends events as a single ClickHouse block. The table is a
// ReplacingMergeTree keyed on payment_id, so replays after a crash collapse.
func (r *chPaymentsRepository) InsertBatch(ctx context.Context, events []model.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lending.payment_events
		    (payment_id, loan_id, customer_id, amount, type, amount_paid, remaining_balance, status, paid_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx,
			ev.PaymentID, ev.LoanID, ev.CustomerID, ev.Amount, ev.Type.String(),
			ev.AmountPaid, ev.RemainingBalance, ev.Status.String(), ev.PaidAt,
		); err != nil {
			return fmt.Errorf("append %s: %w", ev.PaymentID, err)
		}
	}

	return tx.Commit()
}

func (r *chPaymentsRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.PaymentEvent, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT payment_id, loan_id, customer_id, amount, type, amount_paid, remaining_balance, status, paid_at
		FROM lending.payment_events FINAL
		WHERE customer_id = ?
		ORDER BY paid_at DESC
		LIMIT ? OFFSET ?
	`
	var rows []model.PaymentEvent
	if err := r.ch.SelectContext(ctx, &rows, q, customerID, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}
