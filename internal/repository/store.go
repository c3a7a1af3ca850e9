package repository

import (
	"context"
	"fmt"

	"finance-ledger/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// insertBatchSize bounds a single INSERT statement; SQLite caps bound variables.
const insertBatchSize = 200

// Balance is the running total over every stored transaction.
type Balance struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Total   decimal.Decimal `json:"total"`
}

// ListFilter selects a page of transactions.
type ListFilter struct {
	Page     int
	PageSize int
	Type     models.TransactionType
}

// Store provides database operations for transactions and categories.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a single database transaction. The Store passed
// to fn is bound to that transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Balance sums income and outcome values. Summation happens on decimals
// rather than in SQL so the result is exact on every driver.
func (s *Store) Balance(ctx context.Context) (Balance, error) {
	var rows []struct {
		Type  models.TransactionType
		Value decimal.Decimal
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("type", "value").
		Find(&rows).Error; err != nil {
		return Balance{}, fmt.Errorf("query balance: %w", err)
	}

	b := Balance{Income: decimal.Zero, Outcome: decimal.Zero}
	for _, r := range rows {
		switch r.Type {
		case models.TypeIncome:
			b.Income = b.Income.Add(r.Value)
		case models.TypeOutcome:
			b.Outcome = b.Outcome.Add(r.Value)
		}
	}
	b.Total = b.Income.Sub(b.Outcome)
	return b, nil
}

// UpsertCategory returns the category with the given title, creating it if
// needed. The unique index on title decides races between writers.
func (s *Store) UpsertCategory(ctx context.Context, title string) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	c := models.Category{Title: title}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoNothing: true,
	}).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("upsert category %q: %w", title, err)
	}

	var got models.Category
	if err := db.Where("title = ?", title).First(&got).Error; err != nil {
		return nil, fmt.Errorf("load category %q: %w", title, err)
	}
	return &got, nil
}

// FindCategoriesByTitles loads every category whose title is in titles with
// one query.
func (s *Store) FindCategoriesByTitles(ctx context.Context, titles []string) ([]models.Category, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	var list []models.Category
	if err := s.db.WithContext(ctx).Where("title IN ?", titles).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return list, nil
}

// UpsertCategories batch-creates categories for titles and returns the
// persisted rows. Titles that already exist are left untouched and returned
// as stored.
func (s *Store) UpsertCategories(ctx context.Context, titles []string) ([]models.Category, error) {
	if len(titles) == 0 {
		return nil, nil
	}
	db := s.db.WithContext(ctx)

	batch := make([]models.Category, 0, len(titles))
	for _, t := range titles {
		batch = append(batch, models.Category{Title: t})
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoNothing: true,
	}).CreateInBatches(&batch, insertBatchSize).Error; err != nil {
		return nil, fmt.Errorf("create categories: %w", err)
	}

	// IDs of rows skipped by ON CONFLICT are not reported back, so re-read.
	return s.FindCategoriesByTitles(ctx, titles)
}

// ListCategories returns all categories ordered by title.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// CreateTransaction inserts t. Its category, if any, must already be persisted.
func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// CreateTransactions batch-inserts ts. Categories must already be persisted.
func (s *Store) CreateTransactions(ctx context.Context, ts []models.Transaction) error {
	if len(ts) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&ts, insertBatchSize).Error; err != nil {
		return fmt.Errorf("create transactions: %w", err)
	}
	return nil
}

// ListTransactions returns a page of transactions, newest first, and the
// total number matching the filter.
func (s *Store) ListTransactions(ctx context.Context, f ListFilter) ([]models.Transaction, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20
	}

	base := s.db.WithContext(ctx).Model(&models.Transaction{})
	if f.Type != "" {
		base = base.Where("type = ?", f.Type)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var list []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order("created_at DESC, id DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return list, total, nil
}

// AllTransactions streams every transaction in creation order to fn,
// loading rows in batches. Used by exports.
func (s *Store) AllTransactions(ctx context.Context, fn func(t *models.Transaction) error) error {
	var batch []models.Transaction
	var fnErr error
	res := s.db.WithContext(ctx).
		Preload("Category").
		FindInBatches(&batch, insertBatchSize, func(_ *gorm.DB, _ int) error {
			for i := range batch {
				if err := fn(&batch[i]); err != nil {
					fnErr = err
					return err
				}
			}
			return nil
		})
	if fnErr != nil {
		return fnErr
	}
	if res.Error != nil {
		return fmt.Errorf("scan transactions: %w", res.Error)
	}
	return nil
}
