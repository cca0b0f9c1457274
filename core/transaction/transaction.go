package transaction

import (
	"context"
	"strings"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
)

// Transaction statuses
const (
	StatusCaptured = "captured"
	StatusRefunded = "refunded"
	StatusFailed   = "failed"
)

type (
	Transaction struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
		Status string  `json:"status"`
		Method string  `json:"method"`
		Email  string  `json:"email"`
		Date   string  `json:"date"`
	}

	// SearchResult holds the matching transactions and the number of transactions searched.
	SearchResult struct {
		Transactions []Transaction `json:"transactions"`
		Total        int           `json:"total"`
	}

	Repository interface {
		Transactions(ctx context.Context) ([]Transaction, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(vala.IsNotNil(repo, "repo")).CheckAndPanic()
	return &Service{repo: repo}
}

// Search does a case-insensitive match of term on the transaction ID or email.
func Search(transactions []Transaction, term string) SearchResult {
	term = core.CleanString(term, true /* lower */)
	res := SearchResult{Transactions: make([]Transaction, 0, len(transactions)), Total: len(transactions)}
	for _, t := range transactions {
		if term == "" || strings.Contains(strings.ToLower(t.ID), term) || strings.Contains(strings.ToLower(t.Email), term) {
			res.Transactions = append(res.Transactions, t)
		}
	}
	return res
}

func (svc *Service) Search(ctx context.Context, term string) (SearchResult, error) {
	transactions, err := svc.repo.Transactions(ctx)
	if err != nil {
		return SearchResult{}, errors.Wrap(err, "loading transactions")
	}
	return Search(transactions, term), nil
}
