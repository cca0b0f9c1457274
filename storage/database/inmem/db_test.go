package inmemdb

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
	"github.com/manishreddyt/easy-collections/storage/fixtures"
)

type failingSeed struct {
	fixtures.Catalog
}

func (failingSeed) Links() ([]paymentlink.Link, error) {
	return nil, errors.New("boom")
}

func openSeeded(t *testing.T) *DB {
	t.Helper()
	db, err := Open(fixtures.New())
	require.NoError(t, err)
	return db
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		db, err := Open(nil)
		require.NoError(t, err)

		state, err := NewCollectionsRepository(db).State(ctx)
		require.NoError(t, err)
		assert.False(t, state.IsSetUp)

		links, err := NewPaymentLinkRepository(db).Links(ctx)
		require.NoError(t, err)
		assert.Empty(t, links)

		transactions, err := NewTransactionRepository(db).Transactions(ctx)
		require.NoError(t, err)
		assert.Empty(t, transactions)
	})

	t.Run("seeded", func(t *testing.T) {
		db := openSeeded(t)

		state, err := NewCollectionsRepository(db).State(ctx)
		require.NoError(t, err)
		assert.Len(t, state.Customers, 20)

		links, err := NewPaymentLinkRepository(db).Links(ctx)
		require.NoError(t, err)
		assert.Len(t, links, 12)

		transactions, err := NewTransactionRepository(db).Transactions(ctx)
		require.NoError(t, err)
		assert.Len(t, transactions, 10)
	})

	t.Run("seed error", func(t *testing.T) {
		_, err := Open(failingSeed{})
		assert.EqualError(t, err, "seeding payment links: boom")
	})
}

func TestCollectionsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCollectionsRepository(openSeeded(t))

	t.Run("reads are copies", func(t *testing.T) {
		state, err := repo.State(ctx)
		require.NoError(t, err)
		state.Customers[0].Name = "changed"
		state.Customers[0].CustomFields["Parent Name"] = "changed"
		state.Schedules[0].Installments[0].Status = collections.InstallmentOverdue

		state, err = repo.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Aarav Sharma", state.Customers[0].Name)
		assert.Equal(t, "Rajesh Sharma", state.Customers[0].CustomFields["Parent Name"])
		assert.Equal(t, collections.InstallmentPaid, state.Schedules[0].Installments[0].Status)
	})

	t.Run("dispatch", func(t *testing.T) {
		state, err := repo.Dispatch(ctx,
			collections.AddGroup{Group: collections.CustomerGroup{ID: "grp_5", Name: "Class 10"}},
			collections.DeleteComponent{ID: "comp_7"},
		)
		require.NoError(t, err)
		assert.Len(t, state.Groups, 5)
		assert.Len(t, state.Components, 6)

		state, err = repo.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Class 10", state.Groups[4].Name)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.Dispatch(cctx, collections.DeleteComponent{ID: "comp_1"})
		assert.Equal(t, context.Canceled, err)

		state, err := repo.State(ctx)
		require.NoError(t, err)
		assert.Len(t, state.Components, 6)
	})

	t.Run("update", func(t *testing.T) {
		state, err := repo.Update(ctx, func(st collections.State) ([]collections.Action, error) {
			return []collections.Action{collections.AddGroup{Group: collections.CustomerGroup{ID: "grp_6", Name: fmt.Sprintf("Class %d", len(st.Groups)+6)}}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Class 11", state.Groups[5].Name)

		_, err = repo.Update(ctx, func(collections.State) ([]collections.Action, error) {
			return []collections.Action{collections.DeleteComponent{ID: "comp_1"}}, errors.New("rejected")
		})
		assert.EqualError(t, err, "rejected")
		state, err = repo.State(ctx)
		require.NoError(t, err)
		assert.Len(t, state.Components, 6)
		assert.Len(t, state.Groups, 6)
	})

	t.Run("concurrent dispatch", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Dispatch(ctx, collections.AddActivity{Item: collections.ActivityItem{ID: fmt.Sprintf("act_x%d", i)}})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		state, err := repo.State(ctx)
		require.NoError(t, err)
		assert.Len(t, state.RecentActivity, 60)
	})
}

func TestPaymentLinkRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentLinkRepository(openSeeded(t))

	links, err := repo.Dispatch(ctx, paymentlink.ToggleStatus{ID: "plink_IJ7q8r9s0t", Status: paymentlink.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, paymentlink.StatusActive, links[4].Status)

	links[0].Title = "changed"
	links, err = repo.Links(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Course Registration - Advanced React", links[0].Title)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Dispatch(ctx, paymentlink.AddLink{Link: paymentlink.Link{ID: fmt.Sprintf("plink_%d", i)}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	links, err = repo.Links(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 32)
}

func TestTransactionRepository(t *testing.T) {
	repo := NewTransactionRepository(openSeeded(t))

	transactions, err := repo.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 10)
	assert.Equal(t, transaction.StatusCaptured, transactions[0].Status)

	transactions[0].Status = transaction.StatusFailed
	transactions, err = repo.Transactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusCaptured, transactions[0].Status)
}
