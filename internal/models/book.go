package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	BookEntity = "book"
)

// Book is the catalog's inventory aggregate. AvailableCopies and
// TotalCopies are only ever mutated through the ledger, which keeps
// 0 <= available <= total.
type Book struct {
	ID              string    `bson:"_id" json:"book_id"`
	ISBN            string    `bson:"isbn" json:"isbn"`
	Title           string    `bson:"title" json:"title"`
	Author          string    `bson:"author" json:"author"`
	Genre           string    `bson:"genre,omitempty" json:"genre,omitempty"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	TotalCopies     int       `bson:"total_copies" json:"total_copies"`
	AvailableCopies int       `bson:"available_copies" json:"available_copies"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

func NewBook(isbn, title, author string, totalCopies int) (*Book, error) {
	if isbn == "" {
		return nil, errors.New("isbn is required")
	}
	if title == "" {
		return nil, errors.New("title is required")
	}
	if author == "" {
		return nil, errors.New("author is required")
	}
	if totalCopies <= 0 {
		return nil, errors.New("total copies must be greater than zero")
	}

	now := time.Now().UTC()
	return &Book{
		ID:              uuid.NewString(),
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}
