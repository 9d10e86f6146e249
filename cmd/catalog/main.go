package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/phuocthuan2203/libhub-microservices/configs"
	"github.com/phuocthuan2203/libhub-microservices/internal/db"
	"github.com/phuocthuan2203/libhub-microservices/internal/handlers"
	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret)

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	bookColl := db.GetCollection(cfg.DBName, "books")
	bookLedger := &ledger.Ledger{Books: bookColl}
	bookHandler := handlers.NewBookHandler(bookColl, bookLedger, auditLogger)

	r := handlers.NewCatalogRouter(bookHandler)

	var server = http.Server{
		Addr:    ":" + cfg.CatalogPort,
		Handler: r,
	}

	go func() {
		log.Println("Catalog service starting on port", cfg.CatalogPort)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Catalog service shut down.")
}
