package echoapi

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manishreddyt/easy-collections/core/collections"
)

const (
	metricsNamespace     = "easy_collections"
	collectorScrapeLimit = 5 * time.Second
)

type metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer, svc *collections.Service) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Number of HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	registerer.MustRegister(m.requests, m.latency, newCollectionsCollector(svc))
	return m
}

func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		start := time.Now()
		err := next(ctx)
		if err != nil {
			// let the error handler write the response so that its status is recorded
			ctx.Error(err)
		}

		route := ctx.Path()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request().Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

func metricsHandler(gatherer prometheus.Gatherer) echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// collectionsCollector reads the collection stats at scrape time.
type collectionsCollector struct {
	svc       *collections.Service
	expected  *prometheus.Desc
	collected *prometheus.Desc
	overdue   *prometheus.Desc
	rate      *prometheus.Desc
	customers *prometheus.Desc
}

var _ prometheus.Collector = (*collectionsCollector)(nil)

func newCollectionsCollector(svc *collections.Service) *collectionsCollector {
	name := func(n string) string { return prometheus.BuildFQName(metricsNamespace, "collections", n) }
	return &collectionsCollector{
		svc:       svc,
		expected:  prometheus.NewDesc(name("expected_amount"), "Amount expected from active & paused customers.", nil, nil),
		collected: prometheus.NewDesc(name("collected_amount"), "Amount collected from active & paused customers.", nil, nil),
		overdue:   prometheus.NewDesc(name("overdue_amount"), "Overdue amount of active & paused customers.", nil, nil),
		rate:      prometheus.NewDesc(name("rate_percent"), "Collection rate in percent.", nil, nil),
		customers: prometheus.NewDesc(name("customers"), "Number of customers by status.", []string{"status"}, nil),
	}
}

func (c *collectionsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.expected
	ch <- c.collected
	ch <- c.overdue
	ch <- c.rate
	ch <- c.customers
}

func (c *collectionsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectorScrapeLimit)
	defer cancel()

	stats, err := c.svc.Stats(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.expected, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.expected, prometheus.GaugeValue, stats.TotalExpected)
	ch <- prometheus.MustNewConstMetric(c.collected, prometheus.GaugeValue, stats.TotalCollected)
	ch <- prometheus.MustNewConstMetric(c.overdue, prometheus.GaugeValue, stats.TotalOverdue)
	ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue, stats.CollectionRate)

	counts, err := c.svc.CustomerStatusCounts(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.customers, err)
		return
	}
	for status, n := range map[string]int{
		collections.StatusActive: counts.Active,
		collections.StatusPaused: counts.Paused,
		collections.StatusExited: counts.Exited,
	} {
		ch <- prometheus.MustNewConstMetric(c.customers, prometheus.GaugeValue, float64(n), status)
	}
}
