package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/bootstrap"
	"github.com/segyhp/fee-ledger/internal/cache"
	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/gateway"
	"github.com/segyhp/fee-ledger/internal/handler"
	"github.com/segyhp/fee-ledger/internal/repository"
	"github.com/segyhp/fee-ledger/internal/service"
	"github.com/segyhp/fee-ledger/migrations"
	"github.com/segyhp/fee-ledger/pkg/logger"
	"github.com/segyhp/fee-ledger/pkg/response"
)

type handlers struct {
	health     *handler.HealthHandler
	fees       *handler.FeeHandler
	payments   *handler.PaymentHandler
	statements *handler.StatementHandler
	settings   *handler.SettingsHandler
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := bootstrap.Logger(cfg, "fee-ledger")
	defer logger.Flush()
	response.SetLogger(appLog)

	// Initialize database
	db, err := bootstrap.DB(cfg)
	if err != nil {
		appLog.Error("failed to initialize database", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Up(db.DB); err != nil {
		appLog.Error("failed to apply migrations", err, nil)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient, err := bootstrap.Redis(context.Background(), cfg)
	if err != nil {
		appLog.Error("failed to initialize redis", err, nil)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(db)
	feeStructureRepo := repository.NewFeeStructureRepository(db)
	feeRecordRepo := repository.NewFeeRecordRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	locker := cache.NewRedisLocker(redisClient)
	statementCache := cache.NewRedisStatementCache(redisClient)
	gatewayClient := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.Timeout)
	verifier := gateway.NewSignatureVerifier(cfg.Gateway.KeySecret)
	notifier := bootstrap.Notifier(cfg, appLog)

	// Initialize services
	feeService := service.NewFeeStructureService(feeStructureRepo, appLog)
	billingService := service.NewBillingService(feeRecordRepo, locker, statementCache, cfg, appLog)
	ledgerService := service.NewLedgerService(
		studentRepo, feeRecordRepo, paymentRepo, settingsRepo, orderRepo,
		statementCache, gatewayClient, verifier, notifier,
		cfg, appLog,
	)
	statementService := service.NewStatementService(studentRepo, feeRecordRepo, paymentRepo, statementCache, cfg, appLog)
	settingsService := service.NewSettingsService(settingsRepo, appLog)

	h := handlers{
		health: handler.NewHealthHandler(db, handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}), cfg.GetHealthTimeout()),
		fees:       handler.NewFeeHandler(feeService, billingService),
		payments:   handler.NewPaymentHandler(ledgerService),
		statements: handler.NewStatementHandler(statementService),
		settings:   handler.NewSettingsHandler(settingsService),
	}

	tokens := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Setup routes
	router := setupRoutes(h, tokens, appLog)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		appLog.Info("server starting", logger.Fields{"addr": server.Addr, "env": cfg.Server.Env})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server", nil)

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("server forced to shutdown", err, nil)
	}

	appLog.Info("server exited", nil)
}

func setupRoutes(h handlers, tokens *auth.TokenVerifier, appLog logger.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(appLog))
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", h.health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.health.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(tokens.Middleware)

	api.HandleFunc("/fee-structures", h.fees.ListFeeStructures).Methods("GET")
	api.HandleFunc("/classes/{classId}/fee", h.fees.SetMonthlyFee).Methods("PUT")
	api.HandleFunc("/fees/generate", h.fees.GenerateFees).Methods("POST")

	api.HandleFunc("/students/{studentId}/payments/cash", h.payments.RecordCashPayment).Methods("POST")
	api.HandleFunc("/fee-records/{feeRecordId}/orders", h.payments.CreateOrder).Methods("POST")
	api.HandleFunc("/payments/verify", h.payments.VerifyPayment).Methods("POST")
	api.HandleFunc("/payments/recent", h.payments.RecentPayments).Methods("GET")

	api.HandleFunc("/students/{studentId}/statement", h.statements.StudentStatement).Methods("GET")
	api.HandleFunc("/parents/me/fees", h.statements.MyChildrenFees).Methods("GET")

	api.HandleFunc("/settings", h.settings.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.settings.UpdateSettings).Methods("PUT")

	return router
}
