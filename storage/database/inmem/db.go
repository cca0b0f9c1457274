package inmemdb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
)

type (
	// Seed provides the initial content of the tables.
	Seed interface {
		DemoState() (collections.State, error)
		Links() ([]paymentlink.Link, error)
		Transactions() ([]transaction.Transaction, error)
	}

	DB struct {
		state        *stateTable
		links        *linkTable
		transactions *transactionTable
	}

	stateTable struct {
		mutex sync.RWMutex
		state collections.State
	}

	linkTable struct {
		mutex sync.RWMutex
		links []paymentlink.Link
	}

	transactionTable struct {
		mutex        sync.RWMutex
		transactions []transaction.Transaction
	}
)

// Open creates the tables; they are empty when seed is nil.
func Open(seed Seed) (*DB, error) {
	db := &DB{
		state:        &stateTable{},
		links:        &linkTable{links: []paymentlink.Link{}},
		transactions: &transactionTable{transactions: []transaction.Transaction{}},
	}
	if seed == nil {
		return db, nil
	}

	state, err := seed.DemoState()
	if err != nil {
		return nil, errors.Wrap(err, "seeding collections state")
	}
	links, err := seed.Links()
	if err != nil {
		return nil, errors.Wrap(err, "seeding payment links")
	}
	transactions, err := seed.Transactions()
	if err != nil {
		return nil, errors.Wrap(err, "seeding transactions")
	}

	db.state.state = state
	db.links.links = links
	db.transactions.transactions = transactions
	return db, nil
}
