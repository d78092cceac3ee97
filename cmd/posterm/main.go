package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fjod/pos_terminal/internal/backend"
	"github.com/fjod/pos_terminal/internal/cache"
	"github.com/fjod/pos_terminal/internal/cart"
	"github.com/fjod/pos_terminal/internal/checkout"
	h "github.com/fjod/pos_terminal/internal/http"
	"github.com/fjod/pos_terminal/internal/journal"
	"github.com/fjod/pos_terminal/internal/publisher"
	"github.com/fjod/pos_terminal/internal/repository"
	"github.com/fjod/pos_terminal/internal/throttle"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	BackendURL      string
	BackendToken    string
	BackendTimeout  time.Duration
	StoreID         string
	DraftThreshold  int
	PollInterval    time.Duration
	KafkaBrokers    []string
	Journal         journal.Credentials
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "pos_terminal"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		BackendURL:     getEnv("BACKEND_API_URL", "http://localhost:9000/api"),
		BackendToken:   getEnv("BACKEND_API_TOKEN", ""),
		BackendTimeout: 30 * time.Second,
		StoreID:        getEnv("STORE_ID", ""),
		DraftThreshold: getEnvInt("DRAFT_CONFIRM_THRESHOLD", throttle.DefaultThreshold),
		PollInterval:   time.Duration(getEnvInt("SALES_POLL_INTERVAL_SECONDS", 30)) * time.Second,
		KafkaBrokers:   strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		Journal: journal.Credentials{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "postgres"),
			Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:            getEnv("POSTGRES_DB", "pos_journal"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo holds the per-register carts
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	cartRepo := repository.NewMongoRepository(db)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("failed to create cart indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	journalRepo, err := journal.NewRepository(&cfg.Journal)
	if err != nil {
		log.Fatalf("failed to connect to journal db: %v", err)
	}
	defer journalRepo.Close()
	if err := journalRepo.RunMigrations(&cfg.Journal); err != nil {
		log.Fatalf("failed to run journal migrations: %v", err)
	}

	events := publisher.NewPublisher(cfg.KafkaBrokers...)
	defer events.Close()

	apiClient := backend.NewClient(cfg.BackendURL, backend.StaticToken(cfg.BackendToken), cfg.BackendTimeout)

	cartService := cart.NewService(cartRepo, cache.NewRedisCache(redisClient))
	checkoutService := checkout.NewService(cartService, apiClient, journalRepo, events)
	draftThrottle := throttle.New(apiClient, cfg.StoreID, cfg.DraftThreshold)

	go draftThrottle.Run(ctx, cfg.PollInterval)

	router := h.NewRouter(h.RouterConfig{
		Carts:          cartService,
		Checkout:       checkoutService,
		Sales:          draftThrottle,
		Debts:          apiClient,
		Journal:        journalRepo,
		Clients:        apiClient,
		Refunds:        apiClient,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "pos-terminal"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("POS terminal starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
