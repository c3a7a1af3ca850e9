package service

import (
	"finance-ledger/internal/repository"

	"github.com/sirupsen/logrus"
)

// TransactionService creates and imports transactions.
type TransactionService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

// NewTransactionService wires the service to its store and logger.
func NewTransactionService(store *repository.Store, log logrus.FieldLogger) *TransactionService {
	return &TransactionService{store: store, log: log}
}
