package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/services/email"
	"github.com/manishreddyt/easy-collections/services/logger"
	"github.com/manishreddyt/easy-collections/storage/database/inmem"
	"github.com/manishreddyt/easy-collections/storage/fixtures"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(os.Stderr, conf)
	logger.Enable(!conf.Debug)

	// reminders go out through the console outside of production
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(os.Stderr, conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	cli, err := newCommandLine(os.Stdout, conf, logger, mailSvc)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

// newCommandLine wires the services over a store seeded with the demo business.
func newCommandLine(out io.Writer, conf *core.Config, logger core.Logger, mailSvc core.EmailService) (*commandLine, error) {
	catalog := fixtures.New()
	db, err := inmemdb.Open(catalog)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	return &commandLine{
		out: out,
		collectionsSvc: collections.NewService(
			inmemdb.NewCollectionsRepository(db),
			catalog,
			mailSvc,
			validate,
			translator,
			conf,
			logger,
		),
		linkSvc: paymentlink.NewService(inmemdb.NewPaymentLinkRepository(db), validate, translator),
	}, nil
}
