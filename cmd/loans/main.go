package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"

	"github.com/phuocthuan2203/libhub-microservices/configs"
	"github.com/phuocthuan2203/libhub-microservices/internal/catalogclient"
	"github.com/phuocthuan2203/libhub-microservices/internal/daemon"
	"github.com/phuocthuan2203/libhub-microservices/internal/db"
	"github.com/phuocthuan2203/libhub-microservices/internal/handlers"
	"github.com/phuocthuan2203/libhub-microservices/internal/loans"
	"github.com/phuocthuan2203/libhub-microservices/internal/middleware"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret)

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	coordinator := &loans.Coordinator{
		Catalog:  catalogclient.New(cfg.CatalogURL),
		Store:    &loans.MongoStore{Loans: db.GetCollection(cfg.DBName, "loans")},
		TermDays: cfg.LoanTermDays,
	}

	loanHandler := &handlers.LoanHandler{
		Coordinator: coordinator,
		AuditLogger: auditLogger,
	}

	loansRouter := r.PathPrefix("/").Subrouter()
	loansRouter.Use(middleware.JWTAuthMiddleware)

	loansRouter.HandleFunc("/loans", loanHandler.Borrow).Methods("POST")
	loansRouter.HandleFunc("/loans/users/{userId}", loanHandler.GetUserLoans).Methods("GET")
	loansRouter.HandleFunc("/loans/{id}", loanHandler.GetLoan).Methods("GET")
	loansRouter.HandleFunc("/loans/{id}/return", loanHandler.Return).Methods("PUT")

	metricsHandler := handlers.MetricsHandler{
		LoanCol: db.GetCollection(cfg.DBName, "loans"),
	}

	adminRouter := r.PathPrefix("/").Subrouter()
	adminRouter.Use(middleware.JWTAuthMiddleware, middleware.RequireAdmin)
	adminRouter.HandleFunc("/admin/metrics", metricsHandler.GetMetrics).Methods("GET")

	ctx, cancelExporter := context.WithCancel(context.Background())
	exporter := daemon.LogExporter{Coll: auditCol}
	exporter.Start(ctx)

	var server = http.Server{
		Addr:    ":" + cfg.LoanPort,
		Handler: r,
	}

	go func() {
		log.Println("Loan service starting on port", cfg.LoanPort)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	cancelExporter()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	log.Println("Loan service shut down.")
}
