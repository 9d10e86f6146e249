package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/phuocthuan2203/libhub-microservices/internal/middleware"
)

// NewCatalogRouter wires the catalog's HTTP surface.
//
// Availability and stock stay anonymous: the loan service calls them
// machine to machine during the borrow flow and carries no user token.
// External traffic only reaches them through the gateway, which checks
// the JWT on /books before proxying.
func NewCatalogRouter(h *BookHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})

	// service-facing routes, registered before the /books/{id} catch-alls
	r.HandleFunc("/books/{id}/availability", h.GetAvailability).Methods("GET")
	r.HandleFunc("/books/{id}/stock", h.UpdateStock).Methods("PUT")

	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.JWTAuthMiddleware)

	authRouter.HandleFunc("/books", h.GetBooks).Methods("GET")
	authRouter.HandleFunc("/books/search", h.SearchBooks).Methods("GET")
	authRouter.HandleFunc("/books/{id}", h.GetBook).Methods("GET")

	adminRouter := r.PathPrefix("/").Subrouter()
	adminRouter.Use(middleware.JWTAuthMiddleware, middleware.RequireAdmin)

	adminRouter.HandleFunc("/books", h.AddBook).Methods("POST")
	adminRouter.HandleFunc("/books/{id}", h.UpdateBook).Methods("PUT")
	adminRouter.HandleFunc("/books/{id}", h.DeleteBook).Methods("DELETE")

	return r
}
