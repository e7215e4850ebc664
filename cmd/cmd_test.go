package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karna-27/bank-lending-system/internal/repository"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- analytics schema
CREATE DATABASE IF NOT EXISTS lending;

CREATE TABLE IF NOT EXISTS lending.t
(
    id String
) ENGINE = MergeTree ORDER BY id;
-- trailing comment
`
	stmts := splitStatements(script)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS lending", stmts[0])
	assert.Contains(t, stmts[1], "ENGINE = MergeTree ORDER BY id")
	assert.NotContains(t, stmts[1], "--")
}

func TestSeedCustomersUpserts(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	dbx := sqlx.NewDb(raw, "mysql")

	customers := demoCustomers(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, c := range customers {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO customers").
			WithArgs(c.ID, c.Name, c.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	err = seedCustomers(context.Background(), repository.NewCustomersRepository(dbx), customers)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "Customer CUST004", customers[3].Name)
}

func TestRootWiresSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "worker"} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestRuntimeLoad(t *testing.T) {
	r := &runtime{}
	require.NoError(t, r.load(""))
	assert.Equal(t, ":3000", r.Config().HTTP.Addr)
	require.NotNil(t, r.Logger())
	r.sync()
}

func TestWorkerHasProjector(t *testing.T) {
	w, _, err := rootCmd.Find([]string{"worker", "projector"})
	require.NoError(t, err)
	assert.Equal(t, "projector", w.Name())
}
