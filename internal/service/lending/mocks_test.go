package lending

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/karna-27/bank-lending-system/internal/model"
)

type mockCustomers struct{ mock.Mock }

func (m *mockCustomers) GetByID(ctx context.Context, tx *sqlx.Tx, id string) (*model.Customer, error) {
	args := m.Called(ctx, tx, id)
	c, _ := args.Get(0).(*model.Customer)
	return c, args.Error(1)
}

func (m *mockCustomers) Insert(ctx context.Context, tx *sqlx.Tx, c model.Customer) error {
	return m.Called(ctx, tx, c).Error(0)
}

type mockLoans struct{ mock.Mock }

func (m *mockLoans) Insert(ctx context.Context, tx *sqlx.Tx, l model.Loan) error {
	return m.Called(ctx, tx, l).Error(0)
}

func (m *mockLoans) GetByID(ctx context.Context, id string) (*model.Loan, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Loan)
	return l, args.Error(1)
}

func (m *mockLoans) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Loan, error) {
	args := m.Called(ctx, tx, id)
	l, _ := args.Get(0).(*model.Loan)
	return l, args.Error(1)
}

func (m *mockLoans) UpdateAmountPaidAndStatus(ctx context.Context, tx *sqlx.Tx, id string, amountPaid float64, status model.LoanStatus) error {
	return m.Called(ctx, tx, id, amountPaid, status).Error(0)
}

func (m *mockLoans) ListByCustomer(ctx context.Context, customerID string) ([]model.Loan, error) {
	args := m.Called(ctx, customerID)
	loans, _ := args.Get(0).([]model.Loan)
	return loans, args.Error(1)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) Insert(ctx context.Context, tx *sqlx.Tx, p model.Payment) error {
	return m.Called(ctx, tx, p).Error(0)
}

func (m *mockPayments) ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error) {
	args := m.Called(ctx, loanID)
	payments, _ := args.Get(0).([]model.Payment)
	return payments, args.Error(1)
}

type mockOutbox struct{ mock.Mock }

func (m *mockOutbox) Insert(ctx context.Context, tx *sqlx.Tx, ev model.OutboxEvent) error {
	return m.Called(ctx, tx, ev).Error(0)
}
