// Package loan is the accounting engine: simple-interest amortization,
// payment application and payoff detection. It performs no I/O.
package loan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/money"
)

const monthsPerYear = 12

// Terms are the inputs a loan is issued with.
type Terms struct {
	Principal         float64
	PeriodYears       int
	YearlyRatePercent float64
}

func (t Terms) validate() error {
	switch {
	case math.IsNaN(t.Principal) || math.IsInf(t.Principal, 0) || t.Principal <= 0:
		return fmt.Errorf("%w: principal must be positive", ErrInvalidLoanTerms)
	case t.PeriodYears <= 0:
		return fmt.Errorf("%w: period must be a positive number of years", ErrInvalidLoanTerms)
	case math.IsNaN(t.YearlyRatePercent) || math.IsInf(t.YearlyRatePercent, 0) || t.YearlyRatePercent < 0:
		return fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidLoanTerms)
	}
	return nil
}

// Schedule is the derived repayment plan of a loan.
type Schedule struct {
	TotalPayable       float64 // full precision
	MonthlyInstallment float64 // rounded to cents
	TotalMonths        int
}

// Amortize computes total payable and the fixed monthly installment:
//
//	total = principal + principal * years * rate/100
//	emi   = round2(total / (years * 12))
func Amortize(t Terms) (Schedule, error) {
	if err := t.validate(); err != nil {
		return Schedule{}, err
	}

	months := t.PeriodYears * monthsPerYear
	if months <= 0 {
		return Schedule{}, fmt.Errorf("%w: loan period cannot be zero or negative", ErrInvalidLoanTerms)
	}

	principal := decimal.NewFromFloat(t.Principal)
	rate := decimal.NewFromFloat(t.YearlyRatePercent).Div(decimal.NewFromInt(100))
	total := principal.Add(principal.Mul(decimal.NewFromInt(int64(t.PeriodYears))).Mul(rate))

	return Schedule{
		TotalPayable:       total.InexactFloat64(),
		MonthlyInstallment: total.Div(decimal.NewFromInt(int64(months))).Round(money.Places).InexactFloat64(),
		TotalMonths:        months,
	}, nil
}

// TotalInterest is the part of a loan's total above its principal.
func TotalInterest(l model.Loan) float64 {
	return decimal.NewFromFloat(l.TotalAmount).Sub(decimal.NewFromFloat(l.Principal)).InexactFloat64()
}

// PaymentOutcome is the loan state after a payment has been applied.
type PaymentOutcome struct {
	PreviousAmountPaid float64
	NewAmountPaid      float64
	Applied            float64 // NewAmountPaid - PreviousAmountPaid
	RemainingBalance   float64
	FullyPaid          bool
}

// Status is the loan status implied by the outcome.
func (o PaymentOutcome) Status() model.LoanStatus {
	if o.FullyPaid {
		return model.LoanPaidOff
	}
	return model.LoanActive
}

// ApplyPayment adds amount to the loan's cumulative paid amount.
// A payment that brings the paid amount to the total in cents pays the loan
// off. Anything above the outstanding balance is absorbed: the paid amount is
// capped at the loan total and the loan becomes PAID_OFF.
//
// The caller must hold the loan's lock between reading l and persisting the
// outcome.
func ApplyPayment(l model.Loan, amount float64) (PaymentOutcome, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return PaymentOutcome{}, fmt.Errorf("%w: amount must be positive", ErrInvalidPaymentInput)
	}
	if l.Status == model.LoanPaidOff {
		return PaymentOutcome{}, ErrLoanAlreadyPaidOff
	}

	out := PaymentOutcome{PreviousAmountPaid: l.AmountPaid}

	prev := decimal.NewFromFloat(l.AmountPaid)
	total := decimal.NewFromFloat(l.TotalAmount)
	candidate := prev.Add(decimal.NewFromFloat(amount))

	// Payoff is decided in cents: the total is only ever shown rounded, so
	// paying the shown amount must clear the loan.
	if candidate.Round(money.Places).GreaterThanOrEqual(total.Round(money.Places)) {
		out.NewAmountPaid = l.TotalAmount
		out.RemainingBalance = 0
		out.FullyPaid = true
		out.Applied = total.Sub(prev).InexactFloat64()
		return out, nil
	}

	out.NewAmountPaid = candidate.InexactFloat64()
	out.RemainingBalance = total.Sub(candidate).InexactFloat64()
	out.Applied = amount
	return out, nil
}

// Balance is the outstanding amount of l, never negative.
func Balance(l model.Loan) float64 {
	if b := l.TotalAmount - l.AmountPaid; b > 0 {
		return b
	}
	return 0
}

// InstallmentsRemaining is the number of installments needed to clear balance.
func InstallmentsRemaining(balance, monthlyInstallment float64) int {
	if monthlyInstallment <= 0 || balance <= 0 {
		return 0
	}
	return int(math.Ceil(balance / monthlyInstallment))
}

// EMIsLeft derives the remaining installment count from a balance the same
// way on every read path: the balance is rounded to cents first.
func EMIsLeft(balance, monthlyInstallment float64) int {
	return InstallmentsRemaining(money.Round2(balance), monthlyInstallment)
}
