package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karna-27/bank-lending-system/internal/config"
	"github.com/karna-27/bank-lending-system/internal/http/middleware"
	"github.com/karna-27/bank-lending-system/internal/metrics"
	"github.com/karna-27/bank-lending-system/internal/repository"
	"github.com/karna-27/bank-lending-system/internal/service/lending"
)

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(cfg config.Config, logger *zap.Logger, mysqlDB, clickhouseDB *sqlx.DB, rds *redis.Client) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	// repos (MySQL)
	customersRepo := repository.NewCustomersRepository(mysqlDB)
	loansRepo := repository.NewLoansRepository(mysqlDB)
	paymentsRepo := repository.NewPaymentsRepository(mysqlDB)
	outboxRepo := repository.NewOutboxRepository(mysqlDB)

	// repos (ClickHouse)
	chPaymentsRepo := repository.NewCHPaymentsRepository(clickhouseDB)

	// services
	lendingSvc := lending.New(
		mysqlDB,
		customersRepo,
		loansRepo,
		paymentsRepo,
		outboxRepo,
		lending.Topics{Loans: cfg.Topics.Loans, Payments: cfg.Topics.Payments},
		logger,
	)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(echoLogLevel(cfg.Log.Level))
	e.Use(echoMid.Recover(), echoMid.Logger())
	e.Use(echoMid.CORSWithConfig(echoMid.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	registerRoutes(e.Group("/api/v1", rlMW), lendingSvc, chPaymentsRepo)

	return &Server{e: e, log: logger}
}

// registerRoutes mounts the lending API on g.
func registerRoutes(g *echo.Group, svc LendingService, chRepo repository.CHPaymentsRepository) {
	g.POST("/loans", createLoanHandler(svc))
	g.POST("/loans/:loan_id/payments", recordPaymentHandler(svc))
	g.GET("/loans/:loan_id/ledger", ledgerHandler(svc))
	g.GET("/customers/:customer_id/overview", overviewHandler(svc))
	g.GET("/customers/:customer_id/payments", listPaymentsHandler(chRepo))
}

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
