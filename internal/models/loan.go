package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanPending    LoanStatus = "PENDING"
	LoanCheckedOut LoanStatus = "CheckedOut"
	LoanFailed     LoanStatus = "FAILED"
	LoanReturned   LoanStatus = "Returned"

	LoanEntity = "loan"
)

// ErrInvalidTransition is returned when a loan status transition is
// attempted from a state that does not allow it.
var ErrInvalidTransition = errors.New("invalid loan status transition")

type Loan struct {
	ID           string     `bson:"_id" json:"loan_id"`
	UserID       string     `bson:"user_id" json:"user_id"`
	BookID       string     `bson:"book_id" json:"book_id"`
	Status       LoanStatus `bson:"status" json:"status"`
	CheckoutDate time.Time  `bson:"checkout_date" json:"checkout_date"`
	DueDate      time.Time  `bson:"due_date" json:"due_date"`
	ReturnDate   *time.Time `bson:"return_date,omitempty" json:"return_date,omitempty"`
}

// NewLoan creates a PENDING loan. No copy is reserved at this point;
// the stock decrement decides whether the borrow goes through.
func NewLoan(userID, bookID string, termDays int) *Loan {
	now := time.Now().UTC()
	return &Loan{
		ID:           uuid.NewString(),
		UserID:       userID,
		BookID:       bookID,
		Status:       LoanPending,
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, termDays),
	}
}

// ConfirmCheckout moves the loan to CheckedOut. Legal only from PENDING.
func (l *Loan) ConfirmCheckout() error {
	if l.Status != LoanPending {
		return ErrInvalidTransition
	}
	l.Status = LoanCheckedOut
	return nil
}

// Fail marks the borrow attempt as failed. It is unconditional so a
// compensation path can always land the record in a terminal state.
func (l *Loan) Fail() {
	l.Status = LoanFailed
}

// MarkReturned moves the loan to Returned and stamps the return date.
// Legal only from CheckedOut.
func (l *Loan) MarkReturned() error {
	if l.Status != LoanCheckedOut {
		return ErrInvalidTransition
	}
	now := time.Now().UTC()
	l.Status = LoanReturned
	l.ReturnDate = &now
	return nil
}
