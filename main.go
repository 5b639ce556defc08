package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering/config"
	httpapi "food-ordering/internal/api/http"
	"food-ordering/internal/service"
	"food-ordering/internal/storage"

	"github.com/redis/go-redis/v9"
)

const defaultSessionSecret = "change-me-in-production"

type app struct {
	handler    http.Handler
	popularity service.PopularityStore
}

// newApp wires the services into the router. rdb and writer are nil when
// Redis or Kafka is not configured.
func newApp(cfg config.Config, db *sql.DB, rdb *redis.Client, writer storage.MessageWriter) *app {
	repo := storage.NewPostgresRepository(db)

	var (
		menuCache  service.MenuCache
		popularity service.PopularityStore
		publisher  service.OrderPublisher
	)
	if rdb != nil {
		cache := storage.NewRedisCache(rdb, cfg.MenuCacheTTL)
		menuCache = cache
		popularity = cache
	}
	if writer != nil {
		publisher = storage.NewKafkaPublisher(writer)
	}

	handler := httpapi.NewHandler(
		service.NewMenuService(repo, menuCache, popularity),
		service.NewOrderService(repo, repo, menuCache, publisher),
		service.NewAuthService(repo, 0),
		service.DefaultQRGenerator{BaseURL: cfg.BaseURL},
		httpapi.NewCookieStore(cfg.SessionSecret),
		httpapi.Options{
			AdminToken:           cfg.AdminToken,
			AllowAnonymousOrders: cfg.AllowAnonymousOrders,
		},
	)

	return &app{
		handler:    httpapi.NewRouter(handler),
		popularity: popularity,
	}
}

func main() {
	cfg := config.Load()
	if cfg.SessionSecret == defaultSessionSecret {
		log.Println("[food-app] WARNING: SESSION_SECRET is not set, using an insecure default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(cfg)
	defer db.Close()

	if err := storage.NewPostgresRepository(db).EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = config.MustInitRedis(cfg)
		defer rdb.Close()
	}

	var writer storage.MessageWriter
	if cfg.KafkaEnabled() {
		kafkaWriter := config.NewKafkaWriter(cfg)
		defer kafkaWriter.Close()
		writer = kafkaWriter
	}

	application := newApp(cfg, db, rdb, writer)

	if cfg.KafkaEnabled() && application.popularity != nil {
		reader := config.NewKafkaReader(cfg)
		defer reader.Close()
		go service.NewConsumer(reader, application.popularity).Start(ctx)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[food-app] starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed:", err)
		}
	}()

	<-ctx.Done()
	log.Println("[food-app] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[food-app] graceful shutdown failed: %v", err)
	}
}
