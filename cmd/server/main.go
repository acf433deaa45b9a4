package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/auth"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/config"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/database"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/handler"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/middleware"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/queue"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/repository"
	"github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/router"
	queue_publisher "github.com/bvivek2148/cargo-shipment-tracker-sub000/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	store := openStore(cfg)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	policy := auth.LockoutPolicy{Threshold: cfg.LockoutThreshold, Duration: cfg.LockoutDuration}
	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})

	amqpURL := os.Getenv("RABBITMQ_URL")
	if amqpURL == "" {
		amqpURL = os.Getenv("AMQP_URL")
	}
	publisher := queue_publisher.NewAuthEventPublisher(amqpURL)

	manager := auth.NewManager(store, hasher, policy, tokens).WithEvents(publisher)

	e := echo.New()
	router.RegisterRoutes(e)

	// Login rate limiting degrades to a no-op when Redis is absent;
	// the per-account lockout inside the manager still applies.
	var loginLimiter echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		loginLimiter = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	authHandler := handler.NewAuthHandler(manager, hasher, store)
	router.RegisterAuth(e, authHandler, manager, loginLimiter)

	// Audit consumer appends auth events to logs/auth.log; it keeps
	// reconnecting on its own and never stops the server.
	go func() {
		if err := queue.StartAuthConsumer(amqpURL); err != nil {
			log.Printf("auth consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore selects the credential store adapter from configuration.
func openStore(cfg config.Config) auth.CredentialStore {
	switch cfg.StoreDriver {
	case "mongo":
		db, err := database.OpenMongo(cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("mongo connect failed: %v", err)
		}
		return repository.NewMongoUserRepo(db)
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql connect failed: %v", err)
		}
		return repository.NewUserRepo(db)
	default:
		log.Fatalf("unknown AUTH_STORE_DRIVER %q (want mysql or mongo)", cfg.StoreDriver)
		return nil
	}
}
