package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api/handler"
	appmiddleware "github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api/middleware"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/config"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/metrics"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logger.Init(cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()
	m := metrics.Init()

	b, err := newBackend(cfg)
	if err != nil {
		logger.Fatal("バックエンドの初期化に失敗しました", zap.Error(err))
	}
	defer b.close()

	bookingService := application.NewBookingService(b.txManager, b.users, b.ledger, b.store, b.ids, b.cache, b.publisher,
		application.BookingOptions{
			MaxConflictRetries: cfg.Booking.MaxConflictRetries,
			ConflictBackoff:    cfg.Booking.ConflictBackoff,
		})
	accountService := application.NewAccountService(b.users, b.ids)
	lookupService := application.NewLookupService(b.catalog, b.ledger, b.cache)
	auditService := application.NewAuditService(b.catalog, b.store)

	e := newServer(cfg, m, b.checks, accountService, bookingService, lookupService)

	auditor := worker.NewLedgerAuditor(auditService, cfg.Booking.LedgerAuditInterval)
	go auditor.Start(context.Background())

	go func() {
		logger.Info("サーバーを起動します",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", string(cfg.Booking.StorageBackend)),
			zap.String("sequence", string(cfg.Booking.SequenceBackend)),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("サーバーをシャットダウンしています...")
	auditor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}
	logger.Info("サーバーが正常にシャットダウンしました")
}

// newServer はルーティングとミドルウェアを設定した Echo を返す
func newServer(
	cfg *config.Config,
	m *metrics.Metrics,
	checks []handler.DependencyCheck,
	accounts handler.AccountServiceInterface,
	bookings handler.BookingServiceInterface,
	lookups handler.LookupServiceInterface,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	appmiddleware.SetupMiddleware(e)
	e.Use(appmiddleware.PrometheusMiddleware(m, "/metrics"))

	health := handler.NewHealthHandler(checks...)
	e.GET("/health", health.Check)
	e.GET("/health/ready", health.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), appmiddleware.MetricsBasicAuth(appmiddleware.LoadMetricsConfig()))

	handler.RegisterRoutes(e.Group("/api/v1"),
		handler.NewAccountHandler(accounts),
		handler.NewBookingHandler(bookings),
		handler.NewLookupHandler(lookups),
	)
	return e
}
