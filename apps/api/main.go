package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/manishreddyt/easy-collections/apps/api/echo"
	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
	"github.com/manishreddyt/easy-collections/services/email"
	"github.com/manishreddyt/easy-collections/services/logger"
	"github.com/manishreddyt/easy-collections/storage/database/inmem"
	"github.com/manishreddyt/easy-collections/storage/fixtures"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(os.Stdout, conf)
	logger.Enable(!conf.Debug)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(os.Stdout, conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	core.ParseEmailTemplates(logger, conf.Debug)

	opts, err := newOptions(conf, logger, mailSvc)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts.SignalShutdown = stop
	server := echoapi.NewServer(opts)
	go server.Start()

	// =========================================================================
	// Shutdown

	<-ctx.Done()
	logger.Info("Start shutdown...")

	// give outstanding requests a deadline for completion
	sctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Stop(sctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

// newOptions wires the services over a store seeded with the demo business.
func newOptions(conf *core.Config, logger core.Logger, mailSvc core.EmailService) (*echoapi.Options, error) {
	catalog := fixtures.New()
	db, err := inmemdb.Open(catalog)
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	return &echoapi.Options{
		Address: conf.Server.Host,
		Conf:    conf,
		Logger:  logger,
		CollectionsSvc: collections.NewService(
			inmemdb.NewCollectionsRepository(db),
			catalog,
			mailSvc,
			validate,
			translator,
			conf,
			logger,
		),
		PaymentLinkSvc: paymentlink.NewService(inmemdb.NewPaymentLinkRepository(db), validate, translator),
		TransactionSvc: transaction.NewService(inmemdb.NewTransactionRepository(db)),
	}, nil
}
