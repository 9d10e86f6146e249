// Package ledger owns the copy counters of the catalog's books. Every
// mutation goes through a conditional update so the invariant
// 0 <= available_copies <= total_copies holds under concurrent callers;
// the database applies each counter change to a single book document
// atomically.
package ledger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phuocthuan2203/libhub-microservices/internal/models"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrOutOfStock   = errors.New("no copies of this book are available")
	ErrOverCapacity = errors.New("available copies already at total")
)

type Ledger struct {
	Books *mongo.Collection
}

// Decrement takes one copy off the shelf. When two callers race for the
// last copy, the guarded filter matches for exactly one of them; the
// other gets ErrOutOfStock.
func (l *Ledger) Decrement(ctx context.Context, bookID string) error {
	filter := bson.M{
		"_id":              bookID,
		"available_copies": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"available_copies": -1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := l.Books.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return l.missReason(ctx, bookID, ErrOutOfStock)
	}
	return nil
}

// Increment puts one copy back. Rejected with ErrOverCapacity once
// available_copies has reached total_copies.
func (l *Ledger) Increment(ctx context.Context, bookID string) error {
	filter := bson.M{
		"_id":   bookID,
		"$expr": bson.M{"$lt": bson.A{"$available_copies", "$total_copies"}},
	}
	update := bson.M{
		"$inc": bson.M{"available_copies": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := l.Books.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return l.missReason(ctx, bookID, ErrOverCapacity)
	}
	return nil
}

// IsAvailable answers "is at least one copy free right now". The answer
// is a snapshot only; nothing is reserved, and a decrement right after a
// true read can still fail when another borrower got there first.
func (l *Ledger) IsAvailable(ctx context.Context, bookID string) (bool, error) {
	var book models.Book
	err := l.Books.FindOne(ctx, bson.M{"_id": bookID}).Decode(&book)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrBookNotFound
		}
		return false, err
	}
	return book.IsAvailable(), nil
}

// missReason tells a missing book apart from a counter guard that did
// not match.
func (l *Ledger) missReason(ctx context.Context, bookID string, guardErr error) error {
	err := l.Books.FindOne(ctx, bson.M{"_id": bookID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}
	return guardErr
}
