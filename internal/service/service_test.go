package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/logger"
	"finance-ledger/internal/models"
	"finance-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated SQLite database in a temp directory.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "service_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestService(t *testing.T) (*TransactionService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewTransactionService(repository.NewStore(db), logger.Discard()), db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// writeCSV writes body to a file in a temp dir and returns its path.
func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func mustCreate(t *testing.T, svc *TransactionService, title string, typ models.TransactionType, value, category string) *models.Transaction {
	t.Helper()
	tr, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		Title: title, Type: typ, Value: dec(value), Category: category,
	})
	require.NoError(t, err)
	return tr
}
