package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	appcheckout "github.com/shopfront/checkout/internal/application/checkout"
	"github.com/shopfront/checkout/internal/config"
	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	httptransport "github.com/shopfront/checkout/internal/infrastructure/http"
	"github.com/shopfront/checkout/internal/infrastructure/id"
	"github.com/shopfront/checkout/internal/infrastructure/memory"
	"github.com/shopfront/checkout/internal/infrastructure/observability/oteltrace"
	"github.com/shopfront/checkout/internal/infrastructure/observability/prometrics"
	"github.com/shopfront/checkout/internal/infrastructure/observability/telemetry"
	"github.com/shopfront/checkout/internal/infrastructure/observability/zaplogger"
	"github.com/shopfront/checkout/internal/infrastructure/paygate"
	"github.com/shopfront/checkout/internal/infrastructure/postgres"
	"github.com/shopfront/checkout/internal/infrastructure/rediscart"
	"github.com/shopfront/checkout/internal/infrastructure/sched"
	"github.com/shopfront/checkout/internal/observability"
)

func main() {
	cfg := config.Load()

	baseLogger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)

	registry := prometrics.New("shopfront", "checkout")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MCheckoutRequests: registry.Counter(
			string(observability.MCheckoutRequests), "Total number of checkout attempts.", "outcome"),
		observability.MRetryAttempts: registry.Counter(
			string(observability.MRetryAttempts), "Total number of scheduled retries.", "operation"),
		observability.MBackgroundReschedules: registry.Counter(
			string(observability.MBackgroundReschedules), "Order creations handed to the background scheduler."),
		observability.MHTTPRequests: registry.Counter(
			string(observability.MHTTPRequests), "Total number of HTTP requests.", "method", "route", "status"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MCheckoutDuration: registry.Histogram(
			string(observability.MCheckoutDuration), "Duration of checkout execution in seconds.", nil),
		observability.MHTTPRequestDuration: registry.Histogram(
			string(observability.MHTTPRequestDuration), "Duration of HTTP requests in seconds.", nil, "method", "route"),
	}

	tel := telemetry.New(oteltrace.New(cfg.ServiceName), baseLogger, counters, histograms)
	logger := tel.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids := id.NewUUIDGenerator()

	var carts cart.Store = memory.NewCartStore()
	if cfg.RedisAddr != "" {
		carts = rediscart.New(rediscart.NewClient(cfg.RedisAddr), cfg.CartTTL)
		logger.Info("cart_store_redis", observability.F("addr", cfg.RedisAddr))
	}

	var orders order.Ledger = memory.NewOrderLedger(ids)
	if cfg.PostgresDSN != "" {
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error("postgres_connect_failed", observability.F("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		ledger := postgres.NewOrderLedger(pool, ids)
		if err := ledger.EnsureSchema(ctx); err != nil {
			logger.Error("postgres_schema_failed", observability.F("error", err.Error()))
			os.Exit(1)
		}
		orders = ledger
		logger.Info("order_ledger_postgres")
	}

	payments := paygate.New(ids, logger)

	runner := sched.NewRunner(logger, cfg.SchedulerQueueSize)
	runner.Start(ctx)

	policy := appcheckout.Policy{
		MaxRetries: cfg.RetryMax,
		Backoff:    appcheckout.ExponentialBackoff(cfg.RetryBaseDelay, cfg.RetryMaxDelay),
	}
	useCase := appcheckout.New(carts, payments, orders, runner, policy, tel)

	handler := httptransport.NewHandler(useCase, carts, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		logger.Info("http_server_stopped")
	}

	// Let in-flight background order retries finish before exit.
	runner.Stop(shutdownCtx)
}
