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
	"github.com/phuocthuan2203/libhub-microservices/internal/db"
	"github.com/phuocthuan2203/libhub-microservices/internal/handlers"
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

	userHandler := &handlers.UserHandler{
		Collection:  db.GetCollection(cfg.DBName, "users"),
		AuditLogger: auditLogger,
	}

	r.HandleFunc("/users/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/users/login", userHandler.Login).Methods("POST")

	usersRouter := r.PathPrefix("/").Subrouter()
	usersRouter.Use(middleware.JWTAuthMiddleware)
	usersRouter.HandleFunc("/users/{id}", userHandler.GetUser).Methods("GET")

	var server = http.Server{
		Addr:    ":" + cfg.IdentityPort,
		Handler: r,
	}

	go func() {
		log.Println("Identity service starting on port", cfg.IdentityPort)
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
	log.Println("Identity service shut down.")
}
