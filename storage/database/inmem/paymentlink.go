package inmemdb

import (
	"context"

	"github.com/manishreddyt/easy-collections/core/paymentlink"
)

type paymentLinkRepository struct {
	db *linkTable
}

func NewPaymentLinkRepository(db *DB) paymentlink.Repository {
	return &paymentLinkRepository{db: db.links}
}

func (repo *paymentLinkRepository) query() []paymentlink.Link {
	return append(make([]paymentlink.Link, 0, len(repo.db.links)), repo.db.links...)
}

func (repo *paymentLinkRepository) Links(ctx context.Context) ([]paymentlink.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *paymentLinkRepository) Dispatch(ctx context.Context, actions ...paymentlink.Action) ([]paymentlink.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, a := range actions {
		repo.db.links = paymentlink.Reduce(repo.db.links, a)
	}
	return repo.query(), nil
}
