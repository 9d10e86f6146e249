package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/phuocthuan2203/libhub-microservices/internal/constants"
	"github.com/phuocthuan2203/libhub-microservices/internal/ledger"
	"github.com/phuocthuan2203/libhub-microservices/internal/loans"
	"github.com/phuocthuan2203/libhub-microservices/internal/middleware"
	"github.com/phuocthuan2203/libhub-microservices/internal/models"
	"github.com/phuocthuan2203/libhub-microservices/internal/utils"
)

type LoanHandler struct {
	Coordinator *loans.Coordinator
	AuditLogger utils.Logger
}

type BorrowRequest struct {
	BookID string `json:"book_id"`
}

// POST /loans
func (h *LoanHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	if userID == "" {
		utils.JSONError(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	var req BorrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == "" {
		utils.JSONError(w, "Invalid input", http.StatusBadRequest)
		return
	}

	loan, err := h.Coordinator.Borrow(r.Context(), userID, req.BookID)
	if err != nil {
		var borrowFailed *loans.BorrowFailedError
		switch {
		case errors.Is(err, loans.ErrBookUnavailable):
			utils.JSONError(w, "Book is not available", http.StatusConflict)
		case errors.Is(err, ledger.ErrBookNotFound):
			utils.JSONError(w, "Book not found", http.StatusNotFound)
		case errors.As(err, &borrowFailed):
			h.AuditLogger.Log(context.Background(), models.LoanEntity, constants.BorrowFailed, map[string]string{
				"loan_id": borrowFailed.LoanID,
				"user_id": userID,
				"book_id": req.BookID,
				"cause":   borrowFailed.Cause.Error(),
			})
			if errors.Is(err, ledger.ErrOutOfStock) {
				utils.JSONError(w, "Book went out of stock", http.StatusConflict)
				return
			}
			utils.JSONError(w, "Borrowing failed", http.StatusBadGateway)
		default:
			utils.JSONError(w, "Borrowing failed", http.StatusInternalServerError)
		}
		return
	}

	h.AuditLogger.Log(context.Background(), models.LoanEntity, constants.Borrow, loan)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loan)
}

// PUT /loans/{id}/return
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	loan, err := h.Coordinator.Return(r.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrLoanNotFound):
			utils.JSONError(w, "Loan not found", http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidTransition):
			utils.JSONError(w, "Loan is not checked out", http.StatusUnprocessableEntity)
		case errors.Is(err, ledger.ErrOverCapacity):
			// loan is already Returned; inventory rejected the release
			utils.JSONError(w, "Loan returned but stock was not released: "+err.Error(), http.StatusConflict)
		default:
			if loan != nil {
				// same gap for transport failures after the status change
				utils.JSONError(w, "Loan returned but stock update failed", http.StatusBadGateway)
				return
			}
			utils.JSONError(w, "Return failed", http.StatusInternalServerError)
		}
		return
	}

	h.AuditLogger.Log(context.Background(), models.LoanEntity, constants.Return, loan)

	json.NewEncoder(w).Encode(loan)
}

// GET /loans/{id}
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	loan, err := h.Coordinator.Loan(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, loans.ErrLoanNotFound) {
			utils.JSONError(w, "Loan not found", http.StatusNotFound)
			return
		}
		utils.JSONError(w, "Failed to fetch loan", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(loan)
}

// GET /loans/users/{userId}
func (h *LoanHandler) GetUserLoans(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	userLoans, err := h.Coordinator.LoansByUser(r.Context(), userID)
	if err != nil {
		utils.JSONError(w, "Failed to fetch loans", http.StatusInternalServerError)
		return
	}
	if userLoans == nil {
		userLoans = []models.Loan{}
	}

	json.NewEncoder(w).Encode(userLoans)
}
