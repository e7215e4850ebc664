package model

import "time"

// Outbox aggregates.
const (
	AggregateLoan    = "loan"
	AggregatePayment = "payment"
)

// OutboxEvent is a row of the outbox table. The Debezium outbox relay routes
// each row to the Kafka topic named in Topic.
type OutboxEvent struct {
	ID          int64     `db:"id"`
	Aggregate   string    `db:"aggregate"`    // loan | payment
	AggregateID string    `db:"aggregate_id"` // loan or payment ID
	Topic       string    `db:"topic"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}
