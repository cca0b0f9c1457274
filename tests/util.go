// Package testutil wires the services over a freshly seeded in-memory database for app-level tests.
package testutil

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
	"github.com/manishreddyt/easy-collections/services/email"
	"github.com/manishreddyt/easy-collections/storage/database/inmem"
	"github.com/manishreddyt/easy-collections/storage/fixtures"
)

type Services struct {
	Conf         *core.Config
	Logger       *Logger
	MailSvc      *emailsvc.ConsoleServiceMock
	Collections  *collections.Service
	Links        *paymentlink.Service
	Transactions *transaction.Service
}

// NewServices returns services backed by the demo business, the seeded payment links & transactions.
func NewServices(t *testing.T) Services {
	t.Helper()

	db, err := inmemdb.Open(fixtures.New())
	require.NoError(t, err)

	conf := core.NewTestConfig()
	logger := new(Logger)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	translator := core.NewTranslator()
	validate := validator.New()
	core.InitValidators(validate, translator)

	return Services{
		Conf:    conf,
		Logger:  logger,
		MailSvc: mailSvc,
		Collections: collections.NewService(
			inmemdb.NewCollectionsRepository(db),
			fixtures.New(),
			mailSvc,
			validate,
			translator,
			conf,
			logger,
		),
		Links:        paymentlink.NewService(inmemdb.NewPaymentLinkRepository(db), validate, translator),
		Transactions: transaction.NewService(inmemdb.NewTransactionRepository(db)),
	}
}

// Logger records error messages and drops everything else.
type Logger struct {
	Errors []string
}

func (*Logger) Debug(string, ...interface{})         {}
func (*Logger) Info(string, ...interface{})          {}
func (*Logger) Warn(string, ...interface{})          {}
func (l *Logger) Error(msg string, _ ...interface{}) { l.Errors = append(l.Errors, msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.Errors = append(l.Errors, msg) }
