// Package lending orchestrates loan issuance, payment recording and the
// ledger/overview reads on top of the persistence gateway.
package lending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/moby/locker"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/ledger"
	"github.com/karna-27/bank-lending-system/internal/loan"
	"github.com/karna-27/bank-lending-system/internal/metrics"
	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/money"
	"github.com/karna-27/bank-lending-system/internal/repository"
	"github.com/karna-27/bank-lending-system/internal/util"
)

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Topics are the Kafka topics outbox rows are routed to.
type Topics struct {
	Loans    string
	Payments string
}

// Service writes every operation in a single transaction: a failed write
// leaves no partial state behind.
type Service struct {
	db        *sqlx.DB
	customers repository.CustomersRepository
	loans     repository.LoansRepository
	payments  repository.PaymentsRepository
	outbox    repository.OutboxRepository
	topics    Topics
	locks     *locker.Locker
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

// New constructs the lending service.
func New(
	db *sqlx.DB,
	customersRepo repository.CustomersRepository,
	loansRepo repository.LoansRepository,
	paymentsRepo repository.PaymentsRepository,
	outboxRepo repository.OutboxRepository,
	topics Topics,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:        db,
		customers: customersRepo,
		loans:     loansRepo,
		payments:  paymentsRepo,
		outbox:    outboxRepo,
		topics:    topics,
		locks:     locker.New(),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     util.NewID,
	}
}

// CreateLoanInput carries a loan request after transport decoding.
type CreateLoanInput struct {
	CustomerID        string
	Principal         float64
	PeriodYears       int
	YearlyRatePercent float64
}

// CreateLoan issues a loan. An unknown customer is created first, inside the
// same transaction, with a default display name.
func (s *Service) CreateLoan(ctx context.Context, in CreateLoanInput) (ledger.LoanCreated, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return ledger.LoanCreated{}, fmt.Errorf("%w: customer_id is required", loan.ErrInvalidLoanTerms)
	}

	sched, err := loan.Amortize(loan.Terms{
		Principal:         in.Principal,
		PeriodYears:       in.PeriodYears,
		YearlyRatePercent: in.YearlyRatePercent,
	})
	if err != nil {
		return ledger.LoanCreated{}, err
	}

	now := s.now()
	l := model.Loan{
		ID:           s.newID(),
		CustomerID:   customerID,
		Principal:    in.Principal,
		InterestRate: in.YearlyRatePercent,
		PeriodYears:  in.PeriodYears,
		TotalAmount:  sched.TotalPayable,
		MonthlyEMI:   sched.MonthlyInstallment,
		AmountPaid:   0,
		Status:       model.LoanActive,
		CreatedAt:    now,
	}

	payload, err := json.Marshal(model.LoanCreatedEvent{
		LoanID:      l.ID,
		CustomerID:  l.CustomerID,
		Principal:   l.Principal,
		TotalAmount: l.TotalAmount,
		MonthlyEMI:  l.MonthlyEMI,
		CreatedAt:   now,
	})
	if err != nil {
		return ledger.LoanCreated{}, fmt.Errorf("marshal loan event: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ledger.LoanCreated{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.ensureCustomer(ctx, tx, customerID, now); err != nil {
		return ledger.LoanCreated{}, err
	}

	if err := s.loans.Insert(ctx, tx, l); err != nil {
		return ledger.LoanCreated{}, fmt.Errorf("insert loan: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, model.OutboxEvent{
		Aggregate:   model.AggregateLoan,
		AggregateID: l.ID,
		Topic:       s.topics.Loans,
		Payload:     payload,
	}); err != nil {
		return ledger.LoanCreated{}, fmt.Errorf("insert outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ledger.LoanCreated{}, fmt.Errorf("commit: %w", err)
	}

	metrics.LoansCreatedTotal.Inc()
	s.log.Info("loan created",
		zap.String("loan_id", l.ID),
		zap.String("customer_id", l.CustomerID),
		zap.Float64("principal", l.Principal),
		zap.Int("period_years", l.PeriodYears),
	)

	return ledger.NewLoanCreated(l), nil
}

// ensureCustomer is the find-then-create step of implicit customer creation.
func (s *Service) ensureCustomer(ctx context.Context, tx *sqlx.Tx, id string, now time.Time) error {
	c, err := s.customers.GetByID(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("get customer: %w", err)
	}
	if c != nil {
		return nil
	}

	if err := s.customers.Insert(ctx, tx, model.Customer{
		ID:        id,
		Name:      model.DefaultCustomerName(id),
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	s.log.Debug("customer created on first loan", zap.String("customer_id", id))
	return nil
}

// RecordPayment applies a payment to a loan.
//
// Payments on one loan are serialized twice: by an in-process lock keyed on
// the loan ID, and by the row lock taken with SELECT ... FOR UPDATE, which
// also covers other processes. The loan update, the payment row and the
// outbox event commit together.
func (s *Service) RecordPayment(ctx context.Context, loanID string, amount float64, paymentType model.PaymentType) (ledger.PaymentReceipt, error) {
	if !paymentType.Valid() {
		return ledger.PaymentReceipt{}, fmt.Errorf("%w: payment type must be EMI or LUMP_SUM", loan.ErrInvalidPaymentInput)
	}
	if !(amount > 0) {
		return ledger.PaymentReceipt{}, fmt.Errorf("%w: amount must be positive", loan.ErrInvalidPaymentInput)
	}

	s.locks.Lock(loanID)
	defer func() { _ = s.locks.Unlock(loanID) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ledger.PaymentReceipt{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	l, err := s.loans.GetForUpdate(ctx, tx, loanID)
	if err != nil {
		return ledger.PaymentReceipt{}, fmt.Errorf("get loan for update: %w", err)
	}
	if l == nil {
		return ledger.PaymentReceipt{}, ErrLoanNotFound
	}

	out, err := loan.ApplyPayment(*l, amount)
	if err != nil {
		if errors.Is(err, loan.ErrLoanAlreadyPaidOff) {
			metrics.PaymentsTotal.WithLabelValues(paymentType.String(), "rejected").Inc()
			s.log.Info("payment rejected: loan already paid off", zap.String("loan_id", loanID))
		}
		return ledger.PaymentReceipt{}, err
	}

	p := model.Payment{
		ID:     s.newID(),
		LoanID: l.ID,
		Amount: out.Applied,
		Type:   paymentType,
		PaidAt: s.now(),
	}

	// the event feeds the payment history view, so amounts leave rounded
	payload, err := json.Marshal(model.PaymentEvent{
		PaymentID:        p.ID,
		LoanID:           l.ID,
		CustomerID:       l.CustomerID,
		Amount:           money.Round2(p.Amount),
		Type:             p.Type,
		AmountPaid:       money.Round2(out.NewAmountPaid),
		RemainingBalance: money.Round2(out.RemainingBalance),
		Status:           out.Status(),
		PaidAt:           p.PaidAt,
	})
	if err != nil {
		return ledger.PaymentReceipt{}, fmt.Errorf("marshal payment event: %w", err)
	}

	if err := s.loans.UpdateAmountPaidAndStatus(ctx, tx, l.ID, out.NewAmountPaid, out.Status()); err != nil {
		return ledger.PaymentReceipt{}, s.failed(paymentType, fmt.Errorf("update loan: %w", err))
	}

	if err := s.payments.Insert(ctx, tx, p); err != nil {
		return ledger.PaymentReceipt{}, s.failed(paymentType, fmt.Errorf("insert payment: %w", err))
	}

	if err := s.outbox.Insert(ctx, tx, model.OutboxEvent{
		Aggregate:   model.AggregatePayment,
		AggregateID: p.ID,
		Topic:       s.topics.Payments,
		Payload:     payload,
	}); err != nil {
		return ledger.PaymentReceipt{}, s.failed(paymentType, fmt.Errorf("insert outbox: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return ledger.PaymentReceipt{}, s.failed(paymentType, fmt.Errorf("commit: %w", err))
	}

	outcome := "recorded"
	if out.FullyPaid {
		outcome = "paid_off"
		metrics.LoansPaidOffTotal.Inc()
	}
	metrics.PaymentsTotal.WithLabelValues(paymentType.String(), outcome).Inc()
	s.log.Info("payment recorded",
		zap.String("payment_id", p.ID),
		zap.String("loan_id", l.ID),
		zap.String("type", paymentType.String()),
		zap.Float64("applied", out.Applied),
		zap.Bool("paid_off", out.FullyPaid),
	)

	return ledger.NewPaymentReceipt(p, *l, out), nil
}

func (s *Service) failed(t model.PaymentType, err error) error {
	metrics.PaymentsTotal.WithLabelValues(t.String(), "failed").Inc()
	return err
}

// Ledger returns a loan with its full payment history.
func (s *Service) Ledger(ctx context.Context, loanID string) (ledger.Ledger, error) {
	l, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("get loan: %w", err)
	}
	if l == nil {
		return ledger.Ledger{}, ErrLoanNotFound
	}

	payments, err := s.payments.ListByLoan(ctx, loanID)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("list payments: %w", err)
	}

	return ledger.NewLedger(*l, payments), nil
}

// Overview lists every loan of a customer. A known customer without loans
// gets an empty overview; an unknown one is ErrCustomerNotFound.
func (s *Service) Overview(ctx context.Context, customerID string) (ledger.Overview, error) {
	loans, err := s.loans.ListByCustomer(ctx, customerID)
	if err != nil {
		return ledger.Overview{}, fmt.Errorf("list loans: %w", err)
	}

	if len(loans) == 0 {
		c, err := s.customers.GetByID(ctx, nil, customerID)
		if err != nil {
			return ledger.Overview{}, fmt.Errorf("get customer: %w", err)
		}
		if c == nil {
			return ledger.Overview{}, ErrCustomerNotFound
		}
	}

	return ledger.NewOverview(customerID, loans), nil
}
