package transaction

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	transactions []Transaction
	err          error
}

func (r repoMock) Transactions(context.Context) ([]Transaction, error) {
	return r.transactions, r.err
}

var testTransactions = []Transaction{
	{ID: "pay_PQ1x2y3z4w5v", Amount: 24999, Status: StatusCaptured, Method: "UPI", Email: "priya.sharma@gmail.com", Date: "13 Feb 2026, 2:34 PM"},
	{ID: "pay_NM9a8b7c6d5e", Amount: 149900, Status: StatusCaptured, Method: "Card", Email: "amit.kumar@outlook.com", Date: "13 Feb 2026, 1:12 PM"},
	{ID: "pay_KL4f3g2h1i0j", Amount: 5000, Status: StatusRefunded, Method: "Netbanking", Email: "neha.patel@yahoo.com", Date: "13 Feb 2026, 12:45 PM"},
	{ID: "pay_GF2p1q0r9s8t", Amount: 32500, Status: StatusFailed, Method: "Card", Email: "sneha.iyer@gmail.com", Date: "13 Feb 2026, 10:05 AM"},
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "empty", term: " ", want: []string{"pay_PQ1x2y3z4w5v", "pay_NM9a8b7c6d5e", "pay_KL4f3g2h1i0j", "pay_GF2p1q0r9s8t"}},
		{name: "id", term: "PAY_KL4", want: []string{"pay_KL4f3g2h1i0j"}},
		{name: "email", term: "gmail", want: []string{"pay_PQ1x2y3z4w5v", "pay_GF2p1q0r9s8t"}},
		{name: "no match", term: "razorpay", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Search(testTransactions, tt.term)
			ids := make([]string, len(res.Transactions))
			for i, tr := range res.Transactions {
				ids[i] = tr.ID
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, 4, res.Total)
		})
	}
}

func TestService_Search(t *testing.T) {
	svc := NewService(&repoMock{transactions: testTransactions})
	res, err := svc.Search(context.Background(), "outlook")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 1)

	svc = NewService(&repoMock{err: errors.New("boom")})
	_, err = svc.Search(context.Background(), "")
	assert.EqualError(t, err, "loading transactions: boom")
}
