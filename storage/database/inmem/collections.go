package inmemdb

import (
	"context"

	"github.com/manishreddyt/easy-collections/core/collections"
)

type collectionsRepository struct {
	db *stateTable
}

func NewCollectionsRepository(db *DB) collections.Repository {
	return &collectionsRepository{db: db.state}
}

func (repo *collectionsRepository) State(ctx context.Context) (collections.State, error) {
	if err := ctx.Err(); err != nil {
		return collections.State{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.state.Clone(), nil
}

// Dispatch reduces all actions under one lock, so readers never see a partial update.
func (repo *collectionsRepository) Dispatch(ctx context.Context, actions ...collections.Action) (collections.State, error) {
	if err := ctx.Err(); err != nil {
		return collections.State{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.reduce(actions), nil
}

// Update holds the write lock from reading the state until fn's actions are applied.
func (repo *collectionsRepository) Update(ctx context.Context, fn func(collections.State) ([]collections.Action, error)) (collections.State, error) {
	if err := ctx.Err(); err != nil {
		return collections.State{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	actions, err := fn(repo.db.state.Clone())
	if err != nil {
		return collections.State{}, err
	}
	return repo.reduce(actions), nil
}

// reduce must be called with the write lock held.
func (repo *collectionsRepository) reduce(actions []collections.Action) collections.State {
	state := repo.db.state
	for _, a := range actions {
		state = collections.Reduce(state, a)
	}
	repo.db.state = state
	return state.Clone()
}
