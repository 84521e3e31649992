package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/payment"
	"github.com/angelmondragon/storefront/internal/stock"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/redis"
)

const serviceName = "storefront"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	products, err := stock.NewRegistry(cfg.Catalog.Products)
	if err != nil {
		return err
	}

	transactions, err := payment.NewClient(cfg.Payment.TransactionURL, payment.WithTimeout(cfg.Payment.Timeout))
	if err != nil {
		return err
	}
	bridge := payment.NewBridge()

	sessions, err := storefront.NewSessions(storefront.Deps{
		Products:        products,
		Transactions:    transactions,
		Widget:          bridge,
		Metrics:         metrics.NewCheckoutMetrics(reg),
		Logger:          logg,
		ConfirmationURL: cfg.Checkout.ConfirmationURL,
	})
	if err != nil {
		return err
	}

	stockClient, err := stock.NewClient(cfg.Stock.URL, stock.WithTimeout(cfg.Stock.Timeout))
	if err != nil {
		return err
	}
	monitor, err := stock.NewMonitor(stock.MonitorParams{
		Registry: products,
		Fetcher:  stockClient,
		Disabler: sessions,
		Metrics:  metrics.NewStockMetrics(reg),
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else if cfg.App.IsProd() {
		return errors.New("redis is required in prod for idempotent checkout")
	} else {
		logg.Warn(ctx, "redis not configured, idempotency keys are not enforced")
	}

	monitor.CheckStock(ctx)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessions, products, bridge, reg),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logCtx := logg.WithFields(gctx, map[string]any{"env": cfg.App.Env, "addr": addr})
		logg.Info(logCtx, "starting storefront server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.RunSweeper(gctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		logg.Info(shutdownCtx, "shutting down storefront server")
		if pending := bridge.Pending(); len(pending) > 0 {
			logg.Warn(logg.WithField(shutdownCtx, "pending_tokens", pending), "payments still awaiting an outcome")
		}
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
