package model

import "time"

type PaymentType string

const (
	PaymentEMI     PaymentType = "EMI"
	PaymentLumpSum PaymentType = "LUMP_SUM"
)

func (t PaymentType) String() string { return string(t) }

// ParsePaymentType accepts exactly "EMI" or "LUMP_SUM".
// Returns (value, true) if valid; otherwise ("", false).
func ParsePaymentType(s string) (PaymentType, bool) {
	switch s {
	case "EMI":
		return PaymentEMI, true
	case "LUMP_SUM":
		return PaymentLumpSum, true
	default:
		return "", false
	}
}

func (t PaymentType) Valid() bool {
	return t == PaymentEMI || t == PaymentLumpSum
}

// Payment is an append-only row of the payments table.
// Amount is the part of the payment applied to the loan.
type Payment struct {
	ID     string      `db:"payment_id"`
	LoanID string      `db:"loan_id"`
	Amount float64     `db:"amount"`
	Type   PaymentType `db:"payment_type"`
	PaidAt time.Time   `db:"payment_date"`
}
