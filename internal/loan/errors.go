package loan

import "errors"

var (
	// ErrInvalidLoanTerms: non-positive principal or period, negative rate.
	ErrInvalidLoanTerms = errors.New("invalid loan terms")
	// ErrInvalidPaymentInput: non-positive amount or unknown payment type.
	ErrInvalidPaymentInput = errors.New("invalid payment input")
	// ErrLoanAlreadyPaidOff rejects any payment against a PAID_OFF loan.
	ErrLoanAlreadyPaidOff = errors.New("loan already paid off")
)
