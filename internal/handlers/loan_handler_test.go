package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/phuocthuan2203/libhub-microservices/internal/handlers"
	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
	"github.com/phuocthuan2203/libhub-microservices/internal/loans"
	"github.com/phuocthuan2203/libhub-microservices/internal/middleware"
	"github.com/phuocthuan2203/libhub-microservices/internal/models"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

type stubCatalog struct {
	available bool
	exists    bool
	adjustErr error
}

func (s *stubCatalog) IsAvailable(context.Context, string) (bool, error) {
	if !s.exists {
		return false, ledger.ErrBookNotFound
	}
	return s.available, nil
}

func (s *stubCatalog) AdjustStock(context.Context, string, int) error {
	return s.adjustErr
}

type memStore struct {
	mu    sync.Mutex
	loans map[string]models.Loan
}

func newMemStore() *memStore {
	return &memStore{loans: make(map[string]models.Loan)}
}

func (s *memStore) Insert(_ context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[loan.ID] = *loan
	return nil
}

func (s *memStore) Update(_ context.Context, loan *models.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[loan.ID] = *loan
	return nil
}

func (s *memStore) FindByID(_ context.Context, id string) (*models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[id]
	if !ok {
		return nil, loans.ErrLoanNotFound
	}
	return &loan, nil
}

func (s *memStore) FindByUser(_ context.Context, userID string) ([]models.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Loan
	for _, loan := range s.loans {
		if loan.UserID == userID {
			result = append(result, loan)
		}
	}
	return result, nil
}

func newLoanRouter(catalog loans.Catalog, store loans.Store) *mux.Router {
	handler := &handlers.LoanHandler{
		Coordinator: &loans.Coordinator{Catalog: catalog, Store: store, TermDays: 14},
	}

	router := mux.NewRouter()
	sub := router.PathPrefix("/").Subrouter()
	sub.Use(middleware.JWTAuthMiddleware)
	sub.HandleFunc("/loans", handler.Borrow).Methods("POST")
	sub.HandleFunc("/loans/users/{userId}", handler.GetUserLoans).Methods("GET")
	sub.HandleFunc("/loans/{id}", handler.GetLoan).Methods("GET")
	sub.HandleFunc("/loans/{id}/return", handler.Return).Methods("PUT")
	return router
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	utils.InitJwtSecret("test-secret")
	token, err := utils.GenerateJWT(userID, string(models.RoleUser))
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func TestLoanHandler_Borrow(t *testing.T) {
	t.Run("successful borrow", func(t *testing.T) {
		store := newMemStore()
		router := newLoanRouter(&stubCatalog{exists: true, available: true}, store)

		body, _ := json.Marshal(handlers.BorrowRequest{BookID: "book-1"})
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status Created, got %v", w.Code)
		}

		var loan models.Loan
		if err := json.NewDecoder(w.Body).Decode(&loan); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if loan.Status != models.LoanCheckedOut {
			t.Errorf("expected CheckedOut, got %v", loan.Status)
		}
		if loan.UserID != "user-1" {
			t.Errorf("expected user from token, got %v", loan.UserID)
		}
	})

	t.Run("book unavailable", func(t *testing.T) {
		router := newLoanRouter(&stubCatalog{exists: true, available: false}, newMemStore())

		body, _ := json.Marshal(handlers.BorrowRequest{BookID: "book-1"})
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", w.Code)
		}
	})

	t.Run("decrement lost the race", func(t *testing.T) {
		catalog := &stubCatalog{exists: true, available: true, adjustErr: ledger.ErrOutOfStock}
		router := newLoanRouter(catalog, newMemStore())

		body, _ := json.Marshal(handlers.BorrowRequest{BookID: "book-1"})
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("expected status Conflict, got %v", w.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		router := newLoanRouter(&stubCatalog{exists: true, available: true}, newMemStore())

		body, _ := json.Marshal(handlers.BorrowRequest{BookID: "book-1"})
		req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", w.Code)
		}
	})
}

func TestLoanHandler_Return(t *testing.T) {
	t.Run("successful return", func(t *testing.T) {
		store := newMemStore()
		loan := models.NewLoan("user-1", "book-1", 14)
		loan.ConfirmCheckout()
		store.Insert(context.Background(), loan)

		router := newLoanRouter(&stubCatalog{exists: true, available: false}, store)

		req := httptest.NewRequest(http.MethodPut, "/loans/"+loan.ID+"/return", nil)
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", w.Code)
		}

		var returned models.Loan
		if err := json.NewDecoder(w.Body).Decode(&returned); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if returned.Status != models.LoanReturned {
			t.Errorf("expected Returned, got %v", returned.Status)
		}
		if returned.ReturnDate == nil {
			t.Error("expected return date to be set")
		}
	})

	t.Run("loan not found", func(t *testing.T) {
		router := newLoanRouter(&stubCatalog{exists: true}, newMemStore())

		req := httptest.NewRequest(http.MethodPut, "/loans/no-such-loan/return", nil)
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})

	t.Run("loan not checked out", func(t *testing.T) {
		store := newMemStore()
		loan := models.NewLoan("user-1", "book-1", 14)
		store.Insert(context.Background(), loan)

		router := newLoanRouter(&stubCatalog{exists: true}, store)

		req := httptest.NewRequest(http.MethodPut, "/loans/"+loan.ID+"/return", nil)
		req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected status UnprocessableEntity, got %v", w.Code)
		}
	})
}

func TestLoanHandler_GetUserLoans(t *testing.T) {
	store := newMemStore()
	loan := models.NewLoan("user-1", "book-1", 14)
	loan.ConfirmCheckout()
	store.Insert(context.Background(), loan)

	router := newLoanRouter(&stubCatalog{exists: true}, store)

	req := httptest.NewRequest(http.MethodGet, "/loans/users/user-1", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, "user-1"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}

	var result []models.Loan
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("expected 1 loan, got %d", len(result))
	}
}
