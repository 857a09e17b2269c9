package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/repository"
)

// BusinessUsecase defines the business profile use cases.
type BusinessUsecase interface {
	// DuplicateMessages collects one message per already-taken field. These
	// pre-checks are advisory; the unique indexes remain the real guarantee.
	DuplicateMessages(ctx context.Context, name, phone, accountNumber string) ([]string, error)

	// CreateBusiness persists a business inside a transaction.
	CreateBusiness(ctx context.Context, business *model.Business) error
}

// ErrBusinessConflict is returned when the insert loses a race against
// another request for one of the unique fields.
var ErrBusinessConflict = errors.New("business conflicts with an existing one")

type businessUsecase struct {
	businessRepo repository.BusinessRepository
	transactor   repository.Transactor
}

// NewBusinessUsecase creates a new BusinessUsecase instance.
func NewBusinessUsecase(businessRepo repository.BusinessRepository, transactor repository.Transactor) BusinessUsecase {
	return &businessUsecase{
		businessRepo: businessRepo,
		transactor:   transactor,
	}
}

func (u *businessUsecase) DuplicateMessages(
	ctx context.Context,
	name, phone, accountNumber string,
) ([]string, error) {
	checks := []struct {
		find    func(context.Context, string) (*model.Business, error)
		value   string
		message string
	}{
		{u.businessRepo.GetBusinessByName, name, "This business name is already registered"},
		{u.businessRepo.GetBusinessByPhone, phone, "This phone number is already registered"},
		{u.businessRepo.GetBusinessByAccountNumber, accountNumber, "This account number is already registered"},
	}

	var messages []string
	for _, check := range checks {
		_, err := check.find(ctx, check.value)
		if err == nil {
			messages = append(messages, check.message)
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}

	return messages, nil
}

func (u *businessUsecase) CreateBusiness(ctx context.Context, business *model.Business) error {
	return u.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.businessRepo.CreateBusiness(ctx, business); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrBusinessConflict
			}
			return err
		}
		return nil
	})
}
