package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phuocthuan2203/libhub-microservices/configs"
	"github.com/phuocthuan2203/libhub-microservices/internal/gateway"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	utils.InitJwtSecret(cfg.JWTSecret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := gateway.NewLimiterStore(cfg.RateRPS, cfg.RateBurst)
	store.StartJanitor(ctx)

	var stats gateway.StatsStore
	if cfg.StatsEnabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		if _, err := rdb.Ping(pingCtx).Result(); err != nil {
			pingCancel()
			log.Fatalf("Redis ping failed: %v", err)
		}
		pingCancel()

		stats = gateway.NewRedisStatsStore(rdb, "gateway:stats", 24*time.Hour)
	}

	limit := gateway.RateLimitMiddleware(gateway.RateLimitOptions{
		Store: store,
		Stats: stats,
	})

	// register/login stay public; everything else needs a bearer token
	routes := []gateway.Route{
		{Prefix: "/users/register", Upstream: cfg.IdentityURL, Public: true},
		{Prefix: "/users/login", Upstream: cfg.IdentityURL, Public: true},
		{Prefix: "/users", Upstream: cfg.IdentityURL},
		{Prefix: "/books", Upstream: cfg.CatalogURL},
		{Prefix: "/loans", Upstream: cfg.LoanURL},
		{Prefix: "/admin", Upstream: cfg.LoanURL},
	}

	router, err := gateway.NewRouter(routes, limit)
	if err != nil {
		log.Fatalf("Gateway setup failed: %v", err)
	}

	var server = http.Server{
		Addr:    ":" + cfg.GatewayPort,
		Handler: router,
	}

	go func() {
		log.Println("Gateway starting on port", cfg.GatewayPort)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Gateway shut down.")
}
