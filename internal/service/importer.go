package service

import (
	"context"
	"fmt"
	"os"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repository"

	"github.com/sirupsen/logrus"
)

// removeFile deletes an imported file; tests replace it.
var removeFile = os.Remove

// ImportResult summarises one import run.
type ImportResult struct {
	Transactions      []models.Transaction `json:"transactions"`
	Imported          int                  `json:"imported"`
	Skipped           int                  `json:"skipped"`
	CategoriesCreated int                  `json:"categories_created"`
	Balance           repository.Balance   `json:"balance"`
}

// ImportTransactions loads every valid row of the CSV file at path, resolves
// categories for the whole batch at once, inserts the transactions and then
// deletes the file. On failure the file is left in place. A file that cannot
// be deleted after the rows are committed is only logged, since the import
// itself succeeded.
//
// No balance check is applied to imported rows; a negative resulting balance
// is only logged.
func (s *TransactionService) ImportTransactions(ctx context.Context, path string) (*ImportResult, error) {
	rows, skipped, err := s.readImportFile(path)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Skipped: skipped}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		titles := uniqueCategoryTitles(rows)

		existing, err := tx.FindCategoriesByTitles(ctx, titles)
		if err != nil {
			return err
		}
		missing := missingTitles(titles, existing)

		created, err := tx.UpsertCategories(ctx, missing)
		if err != nil {
			return err
		}
		res.CategoriesCreated = len(missing)

		byTitle := make(map[string]*models.Category, len(existing)+len(created))
		for _, list := range [][]models.Category{created, existing} {
			for i := range list {
				byTitle[list[i].Title] = &list[i]
			}
		}

		ts := make([]models.Transaction, 0, len(rows))
		for _, r := range rows {
			t := models.Transaction{Title: r.Title, Type: r.Type, Value: r.Value}
			if c, ok := byTitle[r.Category]; ok {
				t.CategoryID = &c.ID
			} else if r.Category != "" {
				s.log.WithFields(logrus.Fields{"line": r.Line, "category": r.Category}).
					Warn("import: category not resolved, storing without one")
			}
			ts = append(ts, t)
		}
		if err := tx.CreateTransactions(ctx, ts); err != nil {
			return err
		}
		for i := range ts {
			if c, ok := byTitle[rows[i].Category]; ok {
				ts[i].Category = c
			}
		}
		res.Transactions = ts

		res.Balance, err = tx.Balance(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Imported = len(res.Transactions)

	entry := s.log.WithFields(logrus.Fields{
		"file":       path,
		"imported":   res.Imported,
		"skipped":    res.Skipped,
		"categories": res.CategoriesCreated,
	})
	if err := removeFile(path); err != nil {
		entry.WithError(err).Warn("import: could not remove imported file")
	}
	entry.Info("transactions imported")
	if res.Balance.Total.IsNegative() {
		entry.WithField("balance", res.Balance.Total.String()).
			Warn("import left the balance negative")
	}
	return res, nil
}

// readImportFile drains the row sequence of the file at path. The file is
// closed before returning so it can be removed afterwards.
func (s *TransactionService) readImportFile(path string) ([]ImportRow, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	skipped := 0
	onSkip := func(line int, reason error) {
		skipped++
		s.log.WithField("line", line).Debugf("import: %v", reason)
	}

	var rows []ImportRow
	for row, err := range ReadRows(f, onSkip) {
		if err != nil {
			return nil, 0, fmt.Errorf("parse import file: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// uniqueCategoryTitles lists the non-empty category titles of rows in first-seen
// order, without duplicates. Comparison is exact.
func uniqueCategoryTitles(rows []ImportRow) []string {
	seen := make(map[string]struct{}, len(rows))
	var titles []string
	for _, r := range rows {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		titles = append(titles, r.Category)
	}
	return titles
}

func missingTitles(titles []string, existing []models.Category) []string {
	have := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		have[c.Title] = struct{}{}
	}
	var missing []string
	for _, t := range titles {
		if _, ok := have[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
