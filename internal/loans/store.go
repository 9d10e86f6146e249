package loans

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phuocthuan2203/libhub-microservices/internal/models"
)

// MongoStore keeps loan records in a mongo collection. Records are only
// inserted and updated, never deleted; FAILED attempts stay for audit.
type MongoStore struct {
	Loans *mongo.Collection
}

func (s *MongoStore) Insert(ctx context.Context, loan *models.Loan) error {
	_, err := s.Loans.InsertOne(ctx, loan)
	return err
}

func (s *MongoStore) Update(ctx context.Context, loan *models.Loan) error {
	res, err := s.Loans.ReplaceOne(ctx, bson.M{"_id": loan.ID}, loan)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrLoanNotFound
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := s.Loans.FindOne(ctx, bson.M{"_id": id}).Decode(&loan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "checkout_date", Value: -1}})
	cursor, err := s.Loans.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var loans []models.Loan
	if err := cursor.All(ctx, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}
