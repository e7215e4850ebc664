package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/karna-27/bank-lending-system/internal/model"
)

type CustomersRepository interface {
	GetByID(ctx context.Context, tx *sqlx.Tx, id string) (*model.Customer, error)
	Insert(ctx context.Context, tx *sqlx.Tx, c model.Customer) error
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// GetByID returns (nil, nil) when the customer does not exist.
func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, tx *sqlx.Tx, id string) (*model.Customer, error) {
	var c model.Customer
	err := sqlx.GetContext(ctx, runner(r.db, tx), &c, `
		SELECT customer_id, name, created_at
		  FROM customers
		 WHERE customer_id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Insert creates the customer. Inserting an existing ID is a no-op, so two
// first loans racing for the same new customer both succeed.
func (r *CustomersRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, c model.Customer) error {
	const q = `
		INSERT INTO customers (customer_id, name, created_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE customer_id = customer_id
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q, c.ID, c.Name, c.CreatedAt)
		return err
	})
}
