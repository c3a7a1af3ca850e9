package service

import (
	"context"
	"fmt"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/repository"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CreateTransactionInput is the payload for a single transaction.
type CreateTransactionInput struct {
	Title    string
	Type     models.TransactionType
	Value    decimal.Decimal
	Category string
}

func (in *CreateTransactionInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)

	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidTransaction)
	case !in.Type.Valid():
		return fmt.Errorf("%w: type must be income or outcome", ErrInvalidTransaction)
	case !in.Value.IsPositive():
		return fmt.Errorf("%w: value must be positive", ErrInvalidTransaction)
	case in.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidTransaction)
	}
	// amount and length limits match the column types
	if _, err := util.ParseValue(in.Value.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if err := util.ValidateTitle(in.Title); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	if err := util.ValidateCategory(in.Category); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// CreateTransaction validates in against the current balance, resolves its
// category (creating it when new) and stores the transaction. An outcome
// larger than the balance fails with ErrInsufficientBalance and writes nothing.
func (s *TransactionService) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*models.Transaction, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var created models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		balance, err := tx.Balance(ctx)
		if err != nil {
			return err
		}
		if in.Type == models.TypeOutcome && balance.Total.LessThan(in.Value) {
			s.log.WithFields(logrus.Fields{
				"balance": balance.Total.String(),
				"value":   in.Value.String(),
			}).Warn("outcome rejected: insufficient balance")
			return ErrInsufficientBalance
		}

		category, err := tx.UpsertCategory(ctx, in.Category)
		if err != nil {
			return err
		}

		created = models.Transaction{
			Title:      in.Title,
			Type:       in.Type,
			Value:      in.Value,
			CategoryID: &category.ID,
		}
		if err := tx.CreateTransaction(ctx, &created); err != nil {
			return err
		}
		created.Category = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":       created.ID,
		"type":     created.Type,
		"value":    created.Value.String(),
		"category": in.Category,
	}).Info("transaction created")
	return &created, nil
}
