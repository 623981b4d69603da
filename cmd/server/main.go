package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/config"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/consumer"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/gateway"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/handler"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/repository"
	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("level", cfg.LogLevel).Warn("Unknown log level, using debug")
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	// Transaction log
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to reach database: %v", err)
	}

	// Remote ledgers, all behind the same timeout and breaker policy
	logger.Info("Initializing gateways...")
	caller := gateway.NewCaller(cfg.UpstreamTimeout, gateway.BreakerSettings{
		ConsecutiveFailures: cfg.BreakerConsecutiveFailures,
		OpenTimeout:         cfg.BreakerOpenTimeout,
		HalfOpenRequests:    cfg.BreakerHalfOpenRequests,
		Interval:            cfg.BreakerInterval,
	}, logger)

	accountClient := gateway.NewAccountClient(cfg.AccountServiceURL, cfg.UpstreamTimeout, caller, logger)
	creditCardClient := gateway.NewCreditCardClient(cfg.CreditCardServiceURL, cfg.UpstreamTimeout, caller, logger)
	creditClient := gateway.NewCreditClient(cfg.CreditServiceURL, cfg.UpstreamTimeout, caller, logger)
	customerClient := gateway.NewCustomerClient(cfg.CustomerServiceURL, cfg.UpstreamTimeout, caller, logger)
	debitCardClient := gateway.NewDebitCardClient(cfg.DebitCardServiceURL, cfg.UpstreamTimeout, caller, logger)
	exchangeClient := gateway.NewExchangeClient(cfg.ExchangeServiceURL, cfg.UpstreamTimeout, caller, logger)
	secondaryWalletClient := gateway.NewSecondaryWalletClient(cfg.SecondaryWalletServiceURL, cfg.UpstreamTimeout, caller, logger)

	transactionRepo := repository.NewTransactionRepository(db, logger)

	logger.Info("Initializing services...")
	authService := service.NewAuthService(cfg.JWTSecret, logger)
	emailSender := service.NewEmailSender(cfg, logger)
	accountService := service.NewAccountService(accountClient, transactionRepo, logger)
	creditCardService := service.NewCreditCardService(creditCardClient, customerClient, transactionRepo, logger)
	creditService := service.NewCreditPaymentService(creditClient, customerClient, transactionRepo, logger)
	debitCardService := service.NewDebitCardService(debitCardClient, accountClient, transactionRepo, logger)
	exchangeService := service.NewExchangeService(exchangeClient, secondaryWalletClient, transactionRepo, logger)
	reportService := service.NewReportService(transactionRepo, emailSender, cfg.ReportEmail, logger)
	statementService := service.NewStatementService(customerClient, accountClient, creditCardClient, creditClient, transactionRepo, logger)

	logger.Info("Initializing handlers...")
	accountHandler := handler.NewAccountHandler(accountService, reportService, logger)
	creditCardHandler := handler.NewCreditCardHandler(creditCardService, reportService, logger)
	creditHandler := handler.NewCreditHandler(creditService, reportService, logger)
	debitCardHandler := handler.NewDebitCardHandler(debitCardService, reportService, logger)
	transactionHandler := handler.NewTransactionHandler(reportService, logger)
	exchangeHandler := handler.NewExchangeHandler(exchangeService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	customerHandler := handler.NewCustomerHandler(statementService, logger)

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/health", handler.Health(caller)).Methods("GET")

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.MetricsMiddleware)
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	transactionsRouter := apiRouter.PathPrefix("/transactions").Subrouter()
	accountHandler.RegisterRoutes(transactionsRouter.PathPrefix("/accounts").Subrouter())
	creditCardHandler.RegisterRoutes(transactionsRouter.PathPrefix("/credit-cards").Subrouter())
	creditHandler.RegisterRoutes(transactionsRouter.PathPrefix("/credits").Subrouter())
	debitCardHandler.RegisterRoutes(transactionsRouter.PathPrefix("/debit-cards").Subrouter())
	transactionHandler.RegisterRoutes(transactionsRouter)

	exchangeHandler.RegisterRoutes(apiRouter.PathPrefix("/exchanges").Subrouter())
	reportHandler.RegisterRoutes(apiRouter.PathPrefix("/reports").Subrouter())
	customerHandler.RegisterRoutes(apiRouter.PathPrefix("/customers").Subrouter())

	// Daily settlement report
	logger.WithField("schedule", cfg.ReportCron).Info("Scheduling settlement report...")
	c := cron.New()
	_, err = c.AddFunc(cfg.ReportCron, func() {
		logger.Info("Running daily settlement report")
		if err := reportService.SendDailyReport(context.Background()); err != nil {
			logger.WithError(err).Error("Settlement report failed")
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule settlement report: %v", err)
	}
	c.Start()

	// Wallet transfer queue
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Failed to open RabbitMQ channel: %v", err)
	}
	defer channel.Close()

	walletConsumer := consumer.NewWalletTransferConsumer(channel, cfg.WalletTransferQueue, exchangeService, accountService, logger)
	go func() {
		if err := walletConsumer.Run(ctx); err != nil {
			logger.WithError(err).Error("Wallet transfer consumer stopped")
		}
	}()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Infof("Starting server on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	stop()
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	walletConsumer.Wait()
	logger.Info("Server stopped")
}
