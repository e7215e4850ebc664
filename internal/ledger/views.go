// Package ledger assembles the response views of loans and payments.
// Every monetary field is rounded to cents exactly once, here; balances and
// remaining installment counts come from the loan engine.
package ledger

import (
	"time"

	"github.com/karna-27/bank-lending-system/internal/loan"
	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/money"
)

const (
	PaymentRecordedMessage = "Payment recorded successfully."
	AlreadyPaidOffMessage  = "This loan has already been paid off."
)

// LoanCreated is returned when a loan is issued.
type LoanCreated struct {
	LoanID             string  `json:"loan_id"`
	CustomerID         string  `json:"customer_id"`
	TotalAmountPayable float64 `json:"total_amount_payable"`
	MonthlyEMI         float64 `json:"monthly_emi"`
}

// NewLoanCreated builds the creation view of l.
func NewLoanCreated(l model.Loan) LoanCreated {
	return LoanCreated{
		LoanID:             l.ID,
		CustomerID:         l.CustomerID,
		TotalAmountPayable: money.Round2(l.TotalAmount),
		MonthlyEMI:         money.Round2(l.MonthlyEMI),
	}
}

// PaymentReceipt confirms a recorded payment.
type PaymentReceipt struct {
	PaymentID        string  `json:"payment_id"`
	LoanID           string  `json:"loan_id"`
	Message          string  `json:"message"`
	RemainingBalance float64 `json:"remaining_balance"`
	EMIsLeft         int     `json:"emis_left"`
}

// NewPaymentReceipt builds the confirmation of payment p applied to l with outcome out.
func NewPaymentReceipt(p model.Payment, l model.Loan, out loan.PaymentOutcome) PaymentReceipt {
	return PaymentReceipt{
		PaymentID:        p.ID,
		LoanID:           l.ID,
		Message:          PaymentRecordedMessage,
		RemainingBalance: money.Round2(out.RemainingBalance),
		EMIsLeft:         loan.EMIsLeft(out.RemainingBalance, l.MonthlyEMI),
	}
}

// Transaction is one payment line of a ledger.
type Transaction struct {
	TransactionID string            `json:"transaction_id"`
	Date          time.Time         `json:"date"`
	Amount        float64           `json:"amount"`
	Type          model.PaymentType `json:"type"`
}

// Ledger is the full record of a single loan.
type Ledger struct {
	LoanID        string           `json:"loan_id"`
	CustomerID    string           `json:"customer_id"`
	Status        model.LoanStatus `json:"status"`
	Principal     float64          `json:"principal"`
	TotalAmount   float64          `json:"total_amount"`
	MonthlyEMI    float64          `json:"monthly_emi"`
	AmountPaid    float64          `json:"amount_paid"`
	BalanceAmount float64          `json:"balance_amount"`
	EMIsLeft      int              `json:"emis_left"`
	Transactions  []Transaction    `json:"transactions"`
}

// NewLedger builds the ledger of l. payments must already be in ascending date order.
func NewLedger(l model.Loan, payments []model.Payment) Ledger {
	balance := loan.Balance(l)

	txs := make([]Transaction, 0, len(payments))
	for _, p := range payments {
		txs = append(txs, Transaction{
			TransactionID: p.ID,
			Date:          p.PaidAt,
			Amount:        money.Round2(p.Amount),
			Type:          p.Type,
		})
	}

	return Ledger{
		LoanID:        l.ID,
		CustomerID:    l.CustomerID,
		Status:        l.Status,
		Principal:     money.Round2(l.Principal),
		TotalAmount:   money.Round2(l.TotalAmount),
		MonthlyEMI:    money.Round2(l.MonthlyEMI),
		AmountPaid:    money.Round2(l.AmountPaid),
		BalanceAmount: money.Round2(balance),
		EMIsLeft:      loan.EMIsLeft(balance, l.MonthlyEMI),
		Transactions:  txs,
	}
}

// LoanSummary is one loan line of a customer overview.
type LoanSummary struct {
	LoanID        string  `json:"loan_id"`
	Principal     float64 `json:"principal"`
	TotalAmount   float64 `json:"total_amount"`
	TotalInterest float64 `json:"total_interest"`
	EMIAmount     float64 `json:"emi_amount"`
	AmountPaid    float64 `json:"amount_paid"`
	EMIsLeft      int     `json:"emis_left"`
}

// Overview lists every loan of a customer.
type Overview struct {
	CustomerID string        `json:"customer_id"`
	TotalLoans int           `json:"total_loans"`
	Loans      []LoanSummary `json:"loans"`
}

// NewOverview builds the overview of customerID. Loans is never nil so an
// empty portfolio encodes as [].
func NewOverview(customerID string, loans []model.Loan) Overview {
	summaries := make([]LoanSummary, 0, len(loans))
	for _, l := range loans {
		summaries = append(summaries, LoanSummary{
			LoanID:        l.ID,
			Principal:     money.Round2(l.Principal),
			TotalAmount:   money.Round2(l.TotalAmount),
			TotalInterest: money.Round2(loan.TotalInterest(l)),
			EMIAmount:     money.Round2(l.MonthlyEMI),
			AmountPaid:    money.Round2(l.AmountPaid),
			EMIsLeft:      loan.EMIsLeft(loan.Balance(l), l.MonthlyEMI),
		})
	}

	return Overview{
		CustomerID: customerID,
		TotalLoans: len(summaries),
		Loans:      summaries,
	}
}
