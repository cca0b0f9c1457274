package echoapi

import (
	"context"
	"net/http"

	"github.com/kat-co/vala"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/manishreddyt/easy-collections/core"
	"github.com/manishreddyt/easy-collections/core/collections"
	"github.com/manishreddyt/easy-collections/core/paymentlink"
	"github.com/manishreddyt/easy-collections/core/transaction"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		SignalShutdown func()

		CollectionsSvc *collections.Service
		PaymentLinkSvc *paymentlink.Service
		TransactionSvc *transaction.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		registry *prometheus.Registry
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	vala.BeginValidation().Validate(
		vala.IsNotNil(opts.Conf, "Conf"),
		vala.IsNotNil(opts.Logger, "Logger"),
		vala.IsNotNil(opts.CollectionsSvc, "CollectionsSvc"),
		vala.IsNotNil(opts.PaymentLinkSvc, "PaymentLinkSvc"),
		vala.IsNotNil(opts.TransactionSvc, "TransactionSvc"),
	).CheckAndPanic()
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}

	s := &server{
		opts:     opts,
		app:      echo.New(),
		registry: prometheus.NewRegistry(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	metrics := newMetrics(s.registry, s.opts.CollectionsSvc)
	s.app.Use(metrics.middleware)

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/metrics", metricsHandler(s.registry))

	v1 := s.app.Group("/v1")
	registerSetupAPI(v1, s.opts.CollectionsSvc)
	registerCustomerAPI(v1, s.opts.CollectionsSvc)
	registerBillingAPI(v1, s.opts.CollectionsSvc)
	registerScheduleAPI(v1, s.opts.CollectionsSvc)
	registerReportAPI(v1, s.opts.CollectionsSvc)
	registerPaymentLinkAPI(v1, s.opts.PaymentLinkSvc)
	registerTransactionAPI(v1, s.opts.TransactionSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.app.Logger.Fatal(err)
	}
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Easy Collections API!")
}
