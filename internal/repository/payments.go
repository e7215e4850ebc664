package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/karna-27/bank-lending-system/internal/model"
)

// PaymentsRepository is append-only: payments are never updated or deleted.
type PaymentsRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, p model.Payment) error
	ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error)
}

type PaymentsRepositoryImpl struct {
	db *sqlx.DB
}

func NewPaymentsRepository(db *sqlx.DB) *PaymentsRepositoryImpl {
	return &PaymentsRepositoryImpl{db: db}
}

var _ PaymentsRepository = (*PaymentsRepositoryImpl)(nil)

func (r *PaymentsRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, p model.Payment) error {
	const q = `
		INSERT INTO payments (payment_id, loan_id, amount, payment_type, payment_date)
		VALUES (?, ?, ?, ?, ?)
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, p.ID, p.LoanID, p.Amount, p.Type.String(), p.PaidAt)
		return err
	})
}

// ListByLoan returns the payments of a loan oldest first. Payment IDs are
// ULIDs, so they break ties between equal timestamps in insertion order.
func (r *PaymentsRepositoryImpl) ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT payment_id, loan_id, amount, payment_type, payment_date
		  FROM payments
		 WHERE loan_id = ?
		 ORDER BY payment_date ASC, payment_id ASC
	`, loanID)
	if err != nil {
		return nil, err
	}
	return payments, nil
}
