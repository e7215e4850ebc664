package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/db"
	"github.com/karna-27/bank-lending-system/internal/model"
	"github.com/karna-27/bank-lending-system/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := rt.Config(), rt.Logger()

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.PoolOptsFrom(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		customers := demoCustomers(time.Now().UTC())
		if err := seedCustomers(ctx, repository.NewCustomersRepository(sqlDB), customers); err != nil {
			return err
		}

		log.Info("seed completed", zap.Int("customers", len(customers)))
		return nil
	},
}

// demoCustomers returns deterministic demo customers; seeding twice is a no-op.
func demoCustomers(now time.Time) []model.Customer {
	return []model.Customer{
		{ID: "CUST001", Name: "Asha Verma", CreatedAt: now},
		{ID: "CUST002", Name: "Rahul Nair", CreatedAt: now},
		{ID: "CUST003", Name: "Meera Iyer", CreatedAt: now},
		{ID: "CUST004", Name: model.DefaultCustomerName("CUST004"), CreatedAt: now},
	}
}

func seedCustomers(ctx context.Context, repo repository.CustomersRepository, customers []model.Customer) error {
	for _, c := range customers {
		if err := repo.Insert(ctx, nil, c); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.ID, err)
		}
	}
	return nil
}
