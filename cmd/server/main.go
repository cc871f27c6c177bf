package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lendtrack/lendtrack/internal/application/usecase"
	"github.com/lendtrack/lendtrack/internal/infrastructure/config"
	"github.com/lendtrack/lendtrack/internal/infrastructure/messaging"
	pgRepo "github.com/lendtrack/lendtrack/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/lendtrack/lendtrack/internal/presentation/grpc"
	"github.com/lendtrack/lendtrack/internal/presentation/rest"
	"github.com/lendtrack/lendtrack/pkg/kafka"
	"github.com/lendtrack/lendtrack/pkg/observability"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

func main() {
	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: "json",
	})
	logger.Info("starting lendtrack",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database -----------------------------------------------------------
	dbCfg := pgdb.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pgdb.NewPool(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pgdb.RunMigrations(dbCfg.DSN(), "file://./migrations"); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready")

	// --- Metrics ------------------------------------------------------------
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			logger.Error("meter provider shutdown error", "error", err)
		}
	}()

	// --- Infrastructure -----------------------------------------------------
	customerRepo := pgRepo.NewCustomerRepo(pool)
	loanRepo := pgRepo.NewLoanRepo(pool)
	cycleRepo := pgRepo.NewCycleRepo(pool)
	paymentRepo := pgRepo.NewPaymentRepo(pool)
	collateralRepo := pgRepo.NewCollateralRepo(pool)
	auditRepo := pgRepo.NewAuditLogRepo(pool)
	settingsRepo := pgRepo.NewSettingsRepo(pool)
	reportRepo := pgRepo.NewReportRepo(pool)
	txManager := pgRepo.NewTxManager(pool)

	producer := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close error", "error", err)
		}
	}()
	publisher := messaging.NewKafkaEventPublisher(producer, "lendtrack.events", logger)

	// --- Use cases ----------------------------------------------------------
	createCustomerUC := usecase.NewCreateCustomerUseCase(customerRepo, auditRepo, txManager)
	updateCustomerUC := usecase.NewUpdateCustomerUseCase(customerRepo, auditRepo, txManager)
	getCustomerUC := usecase.NewGetCustomerUseCase(customerRepo)
	listCustomersUC := usecase.NewListCustomersUseCase(customerRepo)

	createLoanUC := usecase.NewCreateLoanUseCase(customerRepo, loanRepo, cycleRepo, collateralRepo, auditRepo, txManager, publisher)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo, customerRepo, cycleRepo, collateralRepo, paymentRepo)
	listLoansUC := usecase.NewListLoansUseCase(loanRepo)
	recordPaymentUC := usecase.NewRecordPaymentUseCase(loanRepo, cycleRepo, paymentRepo, auditRepo, txManager, publisher)
	rolloverUC := usecase.NewRolloverCyclesUseCase(loanRepo, cycleRepo, paymentRepo, auditRepo, txManager, publisher)

	addCollateralUC := usecase.NewAddCollateralUseCase(loanRepo, collateralRepo, auditRepo, txManager, publisher)
	updateCollateralUC := usecase.NewUpdateCollateralUseCase(collateralRepo, auditRepo, txManager)
	returnCollateralUC := usecase.NewReturnCollateralUseCase(collateralRepo, auditRepo, txManager, publisher)
	removeCollateralUC := usecase.NewRemoveCollateralUseCase(collateralRepo, auditRepo, txManager)

	dashboardUC := usecase.NewDashboardUseCase(reportRepo, settingsRepo, loanRepo, paymentRepo)
	monthlyReportUC := usecase.NewMonthlyReportUseCase(reportRepo)
	listPaymentsUC := usecase.NewListPaymentsUseCase(paymentRepo)
	getSettingsUC := usecase.NewGetSettingsUseCase(settingsRepo)
	updateSettingsUC := usecase.NewUpdateSettingsUseCase(settingsRepo, auditRepo, txManager)

	// --- gRPC server --------------------------------------------------------
	grpcHandler := grpcPresentation.NewHandler(createLoanUC, getLoanUC, recordPaymentUC, rolloverUC, logger)
	grpcServer := grpcPresentation.NewServer(grpcHandler, logger, cfg.GRPCPort)

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- HTTP server --------------------------------------------------------
	mux := http.NewServeMux()
	rest.NewHealthHandler(pool, logger).RegisterRoutes(mux)
	rest.NewCustomerHandler(createCustomerUC, updateCustomerUC, getCustomerUC, listCustomersUC, logger).RegisterRoutes(mux)
	rest.NewLoanHandler(createLoanUC, getLoanUC, listLoansUC, recordPaymentUC,
		addCollateralUC, updateCollateralUC, returnCollateralUC, removeCollateralUC, logger).RegisterRoutes(mux)
	rest.NewReportHandler(dashboardUC, monthlyReportUC, listPaymentsUC, getSettingsUC, updateSettingsUC, logger).RegisterRoutes(mux)
	rest.NewCronHandler(rolloverUC, cfg.CronSecret, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown --------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lendtrack stopped")
}
