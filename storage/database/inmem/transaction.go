package inmemdb

import (
	"context"

	"github.com/manishreddyt/easy-collections/core/transaction"
)

type transactionRepository struct {
	db *transactionTable
}

func NewTransactionRepository(db *DB) transaction.Repository {
	return &transactionRepository{db: db.transactions}
}

func (repo *transactionRepository) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append(make([]transaction.Transaction, 0, len(repo.db.transactions)), repo.db.transactions...), nil
}
