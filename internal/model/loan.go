package model

import "time"

type LoanStatus string

const (
	LoanActive  LoanStatus = "ACTIVE"
	LoanPaidOff LoanStatus = "PAID_OFF"
)

func (s LoanStatus) String() string { return string(s) }

func (s LoanStatus) Valid() bool {
	return s == LoanActive || s == LoanPaidOff
}

// Loan is the DB entity persisted in the loans table.
// TotalAmount is stored at full precision; MonthlyEMI is already rounded to cents.
type Loan struct {
	ID           string     `db:"loan_id"`
	CustomerID   string     `db:"customer_id"`
	Principal    float64    `db:"principal_amount"`
	InterestRate float64    `db:"interest_rate"` // yearly, percent
	PeriodYears  int        `db:"loan_period_years"`
	TotalAmount  float64    `db:"total_amount"`
	MonthlyEMI   float64    `db:"monthly_emi"`
	AmountPaid   float64    `db:"amount_paid"`
	Status       LoanStatus `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
}
