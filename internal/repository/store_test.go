package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finance-ledger/internal/config"
	"finance-ledger/internal/database"
	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated SQLite database in a temp directory.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store_test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seed(t *testing.T, s *Store, typ models.TransactionType, value string) {
	t.Helper()
	require.NoError(t, s.CreateTransaction(context.Background(), &models.Transaction{
		Title: string(typ) + " " + value,
		Type:  typ,
		Value: dec(value),
	}))
}

func TestBalance_Empty(t *testing.T) {
	s := NewStore(setupTestDB(t))

	b, err := s.Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, b.Income.IsZero())
	assert.True(t, b.Outcome.IsZero())
	assert.True(t, b.Total.IsZero())
}

func TestBalance_SumsIncomeMinusOutcome(t *testing.T) {
	s := NewStore(setupTestDB(t))
	seed(t, s, models.TypeIncome, "1000")
	seed(t, s, models.TypeIncome, "0.10")
	seed(t, s, models.TypeOutcome, "5.05")
	seed(t, s, models.TypeOutcome, "0.20")

	b, err := s.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1000.10", b.Income.StringFixed(2))
	assert.Equal(t, "5.25", b.Outcome.StringFixed(2))
	assert.Equal(t, "994.85", b.Total.StringFixed(2))
}

func TestUpsertCategory_CreatesOnce(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	first, err := s.UpsertCategory(ctx, "housing")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := s.UpsertCategory(ctx, "housing")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertCategory_CaseSensitive(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ctx := context.Background()

	lower, err := s.UpsertCategory(ctx, "food")
	require.NoError(t, err)
	upper, err := s.UpsertCategory(ctx, "Food")
	require.NoError(t, err)
	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestFindCategoriesByTitles(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ctx := context.Background()
	_, err := s.UpsertCategory(ctx, "food")
	require.NoError(t, err)
	_, err = s.UpsertCategory(ctx, "job")
	require.NoError(t, err)

	got, err := s.FindCategoriesByTitles(ctx, []string{"food", "travel"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "food", got[0].Title)

	none, err := s.FindCategoriesByTitles(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpsertCategories_MixedExistingAndNew(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	existing, err := s.UpsertCategory(ctx, "food")
	require.NoError(t, err)

	got, err := s.UpsertCategories(ctx, []string{"food", "job", "rent"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	byTitle := map[string]models.Category{}
	for _, c := range got {
		assert.NotZero(t, c.ID)
		byTitle[c.Title] = c
	}
	assert.Equal(t, existing.ID, byTitle["food"].ID)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestCreateTransactions_Batch(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()

	cat, err := s.UpsertCategory(ctx, "food")
	require.NoError(t, err)

	ts := []models.Transaction{
		{Title: "coffee", Type: models.TypeOutcome, Value: dec("5"), CategoryID: &cat.ID},
		{Title: "bonus", Type: models.TypeIncome, Value: dec("12.5")},
	}
	require.NoError(t, s.CreateTransactions(ctx, ts))
	assert.NotZero(t, ts[0].ID)
	assert.NotZero(t, ts[1].ID)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.CreateTransactions(ctx, nil))
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	s := NewStore(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.UpsertCategory(ctx, "ghost"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListTransactions_PaginatesAndPreloads(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ctx := context.Background()
	cat, err := s.UpsertCategory(ctx, "food")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
			Title: "item", Type: models.TypeIncome, Value: dec("1"), CategoryID: &cat.ID,
		}))
	}
	seed(t, s, models.TypeOutcome, "1")

	list, total, err := s.ListTransactions(ctx, ListFilter{Page: 1, PageSize: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, list, 4)

	page2, _, err := s.ListTransactions(ctx, ListFilter{Page: 2, PageSize: 4})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	incomes, total, err := s.ListTransactions(ctx, ListFilter{Type: models.TypeIncome})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	for _, tr := range incomes {
		require.NotNil(t, tr.Category)
		assert.Equal(t, "food", tr.Category.Title)
	}
}

func TestAllTransactions_VisitsEveryRow(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		seed(t, s, models.TypeIncome, "2")
	}

	var n int
	require.NoError(t, s.AllTransactions(ctx, func(*models.Transaction) error {
		n++
		return nil
	}))
	assert.Equal(t, 3, n)

	stop := errors.New("stop")
	err := s.AllTransactions(ctx, func(*models.Transaction) error { return stop })
	assert.ErrorIs(t, err, stop)
}
