package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sa-fashion-be/internal/config"
	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"
	"sa-fashion-be/internal/metrics"
	"sa-fashion-be/internal/middleware"
	"sa-fashion-be/internal/order"
	"sa-fashion-be/internal/product"
	"sa-fashion-be/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	connectFunc     = db.Connect
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := openStore(ctx, cfg)
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.L().Warn("failed to close store", zap.Error(err))
		}
	}()

	handler := newServer(cfg, conn, prometheus.NewRegistry())

	addr := ":" + cfg.AppPort
	logger.L().Info("🚀 server running",
		zap.String("addr", addr),
		zap.Bool("store_available", conn.Available()),
	)
	return startServerFunc(ctx, addr, handler)
}

// openStore connects to the configured store. Any failure is logged and
// yields a nil conn so the server starts in degraded mode.
func openStore(ctx context.Context, cfg *config.Config) *db.Conn {
	conn, err := connectFunc(ctx, cfg)
	switch {
	case errors.Is(err, db.ErrNotConfigured):
		logger.L().Warn("DATABASE_URL not set, running without storage")
		return nil
	case err != nil:
		logger.L().Error("store connection failed, running without storage", zap.Error(err))
		return nil
	}

	logger.L().Info("store connected", zap.String("driver", string(conn.Driver)))
	return conn
}

func newServer(cfg *config.Config, conn *db.Conn, reg *prometheus.Registry) http.Handler {
	m := metrics.New(reg)

	productSvc := product.NewService(product.NewRepository(conn))
	orderSvc := order.NewService(order.NewRepository(conn))

	h := transport.NewHandler(productSvc, orderSvc, conn, m)
	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey, middleware.ParseTrustedProxies(cfg.TrustedProxies)...)

	var handler http.Handler = h.Routes()
	handler = limiter.Middleware(handler)
	handler = middleware.CORS(cfg.CORSAllowOrigins)(handler)
	handler = middleware.Metrics(m)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	return handler
}

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
