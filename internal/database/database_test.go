package database

import (
	"path/filepath"
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_SQLiteCreatesDirAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&models.Category{}))
	assert.True(t, db.Migrator().HasTable(&models.Transaction{}))
	assert.True(t, db.Migrator().HasIndex(&models.Category{}, "Title"))
}

func TestAutoMigrate_CategoryTitleIsUnique(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Create(&models.Category{Title: "food"}).Error)
	assert.Error(t, db.Create(&models.Category{Title: "food"}).Error)
	// titles are case-sensitive
	assert.NoError(t, db.Create(&models.Category{Title: "Food"}).Error)
}

func TestAutoMigrate_TransactionWithoutCategory(t *testing.T) {
	db, err := Init(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, AutoMigrate(db))

	tx := models.Transaction{Title: "orphan", Type: models.TypeIncome, Value: decimal.NewFromInt(3)}
	require.NoError(t, db.Create(&tx).Error)

	var got models.Transaction
	require.NoError(t, db.First(&got, tx.ID).Error)
	assert.Nil(t, got.CategoryID)
	assert.True(t, got.Value.Equal(decimal.NewFromInt(3)))
}
