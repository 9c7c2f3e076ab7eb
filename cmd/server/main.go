package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/payment"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	catalogProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog)
	defer catalogProducer.Close()
	activityProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicActivity)
	defer activityProducer.Close()
	log.Println("Kafka producers initialized")

	eventPublisher := broker.NewEventPublisher(catalogProducer, activityProducer)

	providers := payment.NewRegistry()
	for _, tag := range cfg.Checkout.Providers {
		switch tag {
		case "midtrans":
			providers.Register(payment.NewMidtransProvider(cfg.Midtrans.ServerKey, cfg.Server.Env))
		case "simulated":
			providers.Register(payment.NewSimulatedProvider(tag))
		default:
			log.Fatalf("Unknown payment provider tag: %s", tag)
		}
	}

	currencyClient := service.NewCurrencyClient(
		cfg.Currency.RatesURL, cfg.Checkout.BaseCurrency,
		cfg.Currency.Timeout, cfg.Currency.CacheTTL, redisClient)

	catalogService := service.NewCatalogService(db, redisClient, eventPublisher, currencyClient)

	checkoutService := service.NewCheckoutService(catalogService, providers, eventPublisher, service.CheckoutOptions{
		RequireVariants:  cfg.Checkout.RequireVariants,
		BaseCurrency:     cfg.Checkout.BaseCurrency,
		SuccessURL:       cfg.Checkout.SuccessURL,
		CancelURL:        cfg.Checkout.CancelURL,
		AllowedCountries: cfg.Checkout.AllowedCountries,
		ProviderTimeout:  cfg.Checkout.ProviderTimeout,
	})

	authService, err := service.NewAuthService(
		cfg.Admin.PasswordHash, cfg.Admin.PasswordSalt, cfg.Admin.TOTPSecret,
		cfg.Admin.SessionTTL, redisClient, eventPublisher)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	catalogConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog, cfg.Kafka.ConsumerGroup)
	catalogWorker := worker.NewCatalogWorker(catalogConsumer, catalogService)
	go func() {
		if err := catalogWorker.Start(workerCtx); err != nil {
			log.Printf("Catalog worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, checkoutService, authService)
	handler.SetupRoutes(router, cfg.Server.RateLimit)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	catalogWorker.Stop()

	log.Println("Server exited")
}
