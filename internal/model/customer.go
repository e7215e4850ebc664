package model

import "time"

type Customer struct {
	ID        string    `db:"customer_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// DefaultCustomerName is used when a customer is created implicitly by its first loan.
func DefaultCustomerName(id string) string {
	return "Customer " + id
}
