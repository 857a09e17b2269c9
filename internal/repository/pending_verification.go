package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/farmbit/mobile-api/internal/model"
)

// PendingVerificationRepository defines the interface for verification-code
// operations.
type PendingVerificationRepository interface {
	CreateVerification(ctx context.Context, verification *model.PendingVerification) (*model.PendingVerification, error)
	GetByUserAndType(ctx context.Context, userID bson.ObjectID, verificationType string) (*model.PendingVerification, error)
	GetByCodeAndType(ctx context.Context, code, verificationType string) (*model.PendingVerification, error)
	DeleteByCode(ctx context.Context, code string) error
}

const pendingVerificationCollection = "pending_verifications"

type pendingVerificationMongoRepository struct {
	db *mongo.Database
}

// NewPendingVerificationMongoRepository creates the pending verifications
// repository. Codes are unique, and a TTL index on expires_at reaps records
// whose flow was never finalized.
func NewPendingVerificationMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) PendingVerificationRepository {
	collection := db.Collection(pendingVerificationCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "verification_code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pending verification indexes")
	}

	return &pendingVerificationMongoRepository{db: db}
}

func (r *pendingVerificationMongoRepository) CreateVerification(
	ctx context.Context,
	verification *model.PendingVerification,
) (*model.PendingVerification, error) {
	verification.CreatedAt = time.Now()

	result, err := r.db.Collection(pendingVerificationCollection).InsertOne(ctx, verification)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		verification.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return verification, nil
}

func (r *pendingVerificationMongoRepository) GetByUserAndType(
	ctx context.Context,
	userID bson.ObjectID,
	verificationType string,
) (*model.PendingVerification, error) {
	return r.findOne(ctx, bson.M{"user": userID, "verification_type": verificationType})
}

func (r *pendingVerificationMongoRepository) GetByCodeAndType(
	ctx context.Context,
	code, verificationType string,
) (*model.PendingVerification, error) {
	return r.findOne(ctx, bson.M{"verification_code": code, "verification_type": verificationType})
}

func (r *pendingVerificationMongoRepository) DeleteByCode(ctx context.Context, code string) error {
	_, err := r.db.Collection(pendingVerificationCollection).DeleteOne(ctx, bson.M{"verification_code": code})
	return err
}

func (r *pendingVerificationMongoRepository) findOne(
	ctx context.Context,
	filter bson.M,
) (*model.PendingVerification, error) {
	result := r.db.Collection(pendingVerificationCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var verification model.PendingVerification
	if err := result.Decode(&verification); err != nil {
		return nil, err
	}

	return &verification, nil
}
