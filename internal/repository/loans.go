package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/karna-27/bank-lending-system/internal/model"
)

type LoansRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, l model.Loan) error
	GetByID(ctx context.Context, id string) (*model.Loan, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Loan, error)
	UpdateAmountPaidAndStatus(ctx context.Context, tx *sqlx.Tx, id string, amountPaid float64, status model.LoanStatus) error
	ListByCustomer(ctx context.Context, customerID string) ([]model.Loan, error)
}

type LoansRepositoryImpl struct {
	db *sqlx.DB
}

func NewLoansRepository(db *sqlx.DB) *LoansRepositoryImpl {
	return &LoansRepositoryImpl{db: db}
}

var _ LoansRepository = (*LoansRepositoryImpl)(nil)

const loanColumns = `loan_id, customer_id, principal_amount, interest_rate, loan_period_years,
		       total_amount, monthly_emi, amount_paid, status, created_at`

func (r *LoansRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, l model.Loan) error {
	const q = `
		INSERT INTO loans
		    (loan_id, customer_id, principal_amount, interest_rate, loan_period_years,
		     total_amount, monthly_emi, amount_paid, status, created_at)
		VALUES
		    (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			l.ID, l.CustomerID, l.Principal, l.InterestRate, l.PeriodYears,
			l.TotalAmount, l.MonthlyEMI, l.AmountPaid, l.Status.String(), l.CreatedAt,
		)
		return err
	})
}

// GetByID returns (nil, nil) when the loan does not exist.
func (r *LoansRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Loan, error) {
	var l model.Loan
	err := r.db.GetContext(ctx, &l, `SELECT `+loanColumns+` FROM loans WHERE loan_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetForUpdate reads the loan and row-locks it until tx ends.
// Returns (nil, nil) when the loan does not exist.
func (r *LoansRepositoryImpl) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Loan, error) {
	if tx == nil {
		return nil, fmt.Errorf("get loan for update: transaction required")
	}
	var l model.Loan
	err := tx.GetContext(ctx, &l, `SELECT `+loanColumns+` FROM loans WHERE loan_id = ? FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateAmountPaidAndStatus is the only writer of amount_paid and status.
// A PAID_OFF row is never touched again.
func (r *LoansRepositoryImpl) UpdateAmountPaidAndStatus(ctx context.Context, tx *sqlx.Tx, id string, amountPaid float64, status model.LoanStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update loan %s: unknown status %q", id, status)
	}

	const q = `
		UPDATE loans
		   SET amount_paid = ?, status = ?
		 WHERE loan_id = ? AND status <> 'PAID_OFF'
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, amountPaid, status.String(), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("update loan %s: %d rows affected", id, n)
		}
		return nil
	})
}

func (r *LoansRepositoryImpl) ListByCustomer(ctx context.Context, customerID string) ([]model.Loan, error) {
	var loans []model.Loan
	err := r.db.SelectContext(ctx, &loans,
		`SELECT `+loanColumns+` FROM loans WHERE customer_id = ? ORDER BY created_at ASC, loan_id ASC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	return loans, nil
}
