package model

import "time"

// PaymentEvent is the payload written to the outbox when a payment is recorded,
// published to Kafka by the outbox relay and projected into ClickHouse.
type PaymentEvent struct {
	PaymentID        string      `json:"payment_id"        db:"payment_id"`
	LoanID           string      `json:"loan_id"           db:"loan_id"`
	CustomerID       string      `json:"customer_id"       db:"customer_id"`
	Amount           float64     `json:"amount"            db:"amount"`
	Type             PaymentType `json:"type"              db:"type"`
	AmountPaid       float64     `json:"amount_paid"       db:"amount_paid"`
	RemainingBalance float64     `json:"remaining_balance" db:"remaining_balance"`
	Status           LoanStatus  `json:"status"            db:"status"`
	PaidAt           time.Time   `json:"paid_at"           db:"paid_at"`
}

// LoanCreatedEvent is written to the outbox when a loan is issued.
type LoanCreatedEvent struct {
	LoanID      string    `json:"loan_id"`
	CustomerID  string    `json:"customer_id"`
	Principal   float64   `json:"principal"`
	TotalAmount float64   `json:"total_amount"`
	MonthlyEMI  float64   `json:"monthly_emi"`
	CreatedAt   time.Time `json:"created_at"`
}
