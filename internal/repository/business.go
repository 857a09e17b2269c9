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

// BusinessRepository defines the interface for business-related database
// operations.
type BusinessRepository interface {
	CreateBusiness(ctx context.Context, business *model.Business) (*model.Business, error)
	GetBusinessByName(ctx context.Context, name string) (*model.Business, error)
	GetBusinessByPhone(ctx context.Context, phone string) (*model.Business, error)
	GetBusinessByAccountNumber(ctx context.Context, accountNumber string) (*model.Business, error)
}

const businessCollection = "businesses"

type businessMongoRepository struct {
	db *mongo.Database
}

// NewBusinessMongoRepository creates the businesses repository and its unique
// indexes on name, phone, account_number, banner, logo and owner.
func NewBusinessMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) BusinessRepository {
	collection := db.Collection(businessCollection)

	uniqueFields := []string{"user", "name", "phone", "account_number", "banner", "logo"}
	indexes := make([]mongo.IndexModel, 0, len(uniqueFields))
	for _, field := range uniqueFields {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create business indexes")
	}

	return &businessMongoRepository{db: db}
}

func (r *businessMongoRepository) CreateBusiness(
	ctx context.Context,
	business *model.Business,
) (*model.Business, error) {
	now := time.Now()
	business.CreatedAt = now
	business.UpdatedAt = now
	if business.Status == "" {
		business.Status = model.BusinessStatusInactive
	}

	result, err := r.db.Collection(businessCollection).InsertOne(ctx, business)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		business.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return business, nil
}

func (r *businessMongoRepository) GetBusinessByName(ctx context.Context, name string) (*model.Business, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *businessMongoRepository) GetBusinessByPhone(ctx context.Context, phone string) (*model.Business, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *businessMongoRepository) GetBusinessByAccountNumber(
	ctx context.Context,
	accountNumber string,
) (*model.Business, error) {
	return r.findOne(ctx, bson.M{"account_number": accountNumber})
}

func (r *businessMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.Business, error) {
	result := r.db.Collection(businessCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var business model.Business
	if err := result.Decode(&business); err != nil {
		return nil, err
	}

	return &business, nil
}
