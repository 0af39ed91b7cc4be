package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nikobuddy/caygnusecomers/internal/cart"
	"github.com/nikobuddy/caygnusecomers/internal/catalog"
	"github.com/nikobuddy/caygnusecomers/internal/coupon"
	"github.com/nikobuddy/caygnusecomers/internal/httpapi"
	"github.com/nikobuddy/caygnusecomers/internal/identity"
	"github.com/nikobuddy/caygnusecomers/internal/orders"
	"github.com/nikobuddy/caygnusecomers/internal/pricing"
	"github.com/nikobuddy/caygnusecomers/internal/shipping"
	"github.com/nikobuddy/caygnusecomers/internal/store"
)

func main() {
	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "storefront")
	kafkaBroker := getEnv("KAFKA_BROKER", "localhost:9092")
	migrationsPath := getEnv("MIGRATIONS_PATH", "migrations")
	jwtSecret := getEnv("JWT_SECRET", "dev-secret")
	requestTimeout := 30 * time.Second

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := store.ConnectMongoDB(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", mongoURI)

	documentStore := store.NewBreakerStore(store.NewMongoStore(mongoDB))

	// Redis cart cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Postgres order projection
	ordersRepo, err := orders.NewPostgresRepository(&orders.Credentials{
		Host:              getEnv("POSTGRES_HOST", "localhost"),
		Port:              getEnvInt("POSTGRES_PORT", 5432),
		User:              getEnv("POSTGRES_USER", "postgres"),
		Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:            getEnv("POSTGRES_DB", "storefront"),
		MigrationsDirPath: migrationsPath,
	})
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(&orders.Credentials{MigrationsDirPath: migrationsPath}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to postgres, migrations applied")

	// Services
	cartCache := cart.NewRedisCache(redisClient)
	cartService := cart.NewService(cart.NewMongoRepository(mongoDB), cartCache, cartWriteMode())
	couponEval := coupon.NewEvaluator(coupon.NewMongoRepository(mongoDB), couponMode())
	shippingService := shipping.NewService(documentStore)
	catalogService := catalog.NewService(documentStore)
	ordersService := orders.NewService(ordersRepo)
	pricingCfg := pricing.Config{FloorAtZero: getEnv("PRICING_FLOOR_AT_ZERO", "") == "true"}

	// Identity
	provider := identity.NewJWTProvider([]byte(jwtSecret))
	unsubscribe := provider.Subscribe(func(ev identity.Event) {
		if ev.SignedIn || ev.UserID == "" {
			return
		}
		// Drop the cached cart when a session ends.
		cleanupCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := cartCache.Delete(cleanupCtx, ev.UserID); err != nil {
			log.Printf("cart cache cleanup error: %v", err)
		}
	})
	defer unsubscribe()

	// Outbox publishing and cart clearing
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()

	poller := orders.NewOutboxPoller(ordersRepo, kafkaBroker)
	defer poller.Close()
	go poller.Run(pollerCtx)

	consumer := orders.NewConsumer(cartService, kafkaBroker)
	defer consumer.Close()
	go consumer.Run(pollerCtx)

	// HTTP surface
	cartHandler := httpapi.NewCartHandler(cartService, catalogService, couponEval, shippingService, pricingCfg, requestTimeout)
	catalogHandler := httpapi.NewCatalogHandler(catalogService, shippingService, requestTimeout)
	checkoutHandler := httpapi.NewCheckoutHandler(cartService, ordersService, shippingService, pricingCfg, requestTimeout)

	authHandler := httpapi.NewAuthHandler(provider)

	router := httpapi.NewRouter(httpapi.RouterConfig{RequestTimeout: requestTimeout}, provider, authHandler, cartHandler, catalogHandler, checkoutHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", httpPort),
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.Printf("Storefront listening on port %s", httpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Storefront stopped")
}

func cartWriteMode() cart.WriteMode {
	if getEnv("CART_WRITE_MODE", "overwrite") == "atomic" {
		return cart.WriteModeAtomic
	}
	return cart.WriteModeOverwrite
}

func couponMode() coupon.Mode {
	if getEnv("COUPON_REDEEM_MODE", "atomic") == "legacy" {
		return coupon.ModeLastWriterWins
	}
	return coupon.ModeAtomic
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
	}
	return defaultValue
}
