// Package loans drives the borrow/return workflow across the loan
// record store and the catalog's inventory. The two sides share no
// transaction; when the inventory step of a borrow fails after the loan
// row was written, the coordinator compensates by failing the loan.
package loans

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/phuocthuan2203/libhub-microservices/internal/models"
)

var (
	// ErrBookUnavailable means the availability check came back false.
	// No loan record exists for the attempt.
	ErrBookUnavailable = errors.New("book is not available")

	ErrLoanNotFound = errors.New("loan not found")
)

// BorrowFailedError reports a borrow attempt that was compensated after
// the stock decrement failed. A FAILED loan row remains for audit.
type BorrowFailedError struct {
	LoanID string
	Cause  error
}

func (e *BorrowFailedError) Error() string {
	return fmt.Sprintf("borrowing failed for loan %s: %v", e.LoanID, e.Cause)
}

func (e *BorrowFailedError) Unwrap() error { return e.Cause }

// Catalog is the loan service's view of the catalog collaborator.
type Catalog interface {
	IsAvailable(ctx context.Context, bookID string) (bool, error)
	// AdjustStock changes a book's available copies by change
	// (negative = decrement, positive = increment).
	AdjustStock(ctx context.Context, bookID string, change int) error
}

// Store persists loan records. Implementations map a missing record to
// ErrLoanNotFound.
type Store interface {
	Insert(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	FindByID(ctx context.Context, id string) (*models.Loan, error)
	FindByUser(ctx context.Context, userID string) ([]models.Loan, error)
}

type Coordinator struct {
	Catalog  Catalog
	Store    Store
	TermDays int
}

// Borrow runs the check-then-act-then-compensate protocol:
//
//  1. advisory availability check (no reservation),
//  2. persist a PENDING loan,
//  3. decrement stock; the decrement is the arbiter and may still fail
//     right after a true availability read.
//
// Any decrement failure, out-of-stock or transport, is compensated the
// same way: the loan goes to FAILED and the caller gets a
// BorrowFailedError. The inventory call is not retried.
func (c *Coordinator) Borrow(ctx context.Context, userID, bookID string) (*models.Loan, error) {
	available, err := c.Catalog.IsAvailable(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrBookUnavailable
	}

	loan := models.NewLoan(userID, bookID, c.TermDays)
	if err := c.Store.Insert(ctx, loan); err != nil {
		return nil, err
	}

	if err := c.Catalog.AdjustStock(ctx, bookID, -1); err != nil {
		loan.Fail()
		if uerr := c.Store.Update(ctx, loan); uerr != nil {
			log.Printf("loan %s: persisting FAILED status failed: %v", loan.ID, uerr)
		}
		return nil, &BorrowFailedError{LoanID: loan.ID, Cause: err}
	}

	if err := loan.ConfirmCheckout(); err != nil {
		return nil, err
	}
	if err := c.Store.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Return marks the loan Returned before touching inventory. A failing
// increment is surfaced but not compensated: the loan stays Returned
// and the book's counter keeps the copy as taken. Known gap, kept as
// the baseline behavior of the protocol.
func (c *Coordinator) Return(ctx context.Context, loanID string) (*models.Loan, error) {
	loan, err := c.Store.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if err := loan.MarkReturned(); err != nil {
		return nil, err
	}
	if err := c.Store.Update(ctx, loan); err != nil {
		return nil, err
	}

	if err := c.Catalog.AdjustStock(ctx, loan.BookID, 1); err != nil {
		log.Printf("loan %s: stock increment failed after return, inventory now undercounts book %s: %v",
			loan.ID, loan.BookID, err)
		return loan, err
	}
	return loan, nil
}

func (c *Coordinator) Loan(ctx context.Context, loanID string) (*models.Loan, error) {
	return c.Store.FindByID(ctx, loanID)
}

func (c *Coordinator) LoansByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	return c.Store.FindByUser(ctx, userID)
}
