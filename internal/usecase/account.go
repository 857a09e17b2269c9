package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/repository"
	"github.com/farmbit/mobile-api/shared/security"
)

// AccountUsecase defines the account management use cases.
type AccountUsecase interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) error
	CheckAvailability(ctx context.Context, email string) error
	UpdateAccount(ctx context.Context, userID bson.ObjectID, params UpdateAccountParams) (*model.User, error)
}

// CreateAccountParams defines the parameters for account creation.
type CreateAccountParams struct {
	Email    string
	FullName string
	Phone    string
	Address  string
	Password string
}

// UpdateAccountParams defines the optional parameters for a partial profile
// update. Only non-nil fields are written.
type UpdateAccountParams struct {
	FullName *string
	Phone    *string
	Address  *string
	Password *string
	Avatar   *string
}

var (
	ErrEmailRegistered  = errors.New("email address is already registered")
	ErrNoUpdatableField = errors.New("no updatable field provided")
)

const identityTokenBytes = 64

type accountUsecase struct {
	userRepo   repository.UserRepository
	transactor repository.Transactor
}

// NewAccountUsecase creates a new AccountUsecase instance.
func NewAccountUsecase(userRepo repository.UserRepository, transactor repository.Transactor) AccountUsecase {
	return &accountUsecase{
		userRepo:   userRepo,
		transactor: transactor,
	}
}

// CreateAccount registers a new user. The duplicate pre-check only exists for
// a friendly error message; the unique index on email is what actually
// guarantees uniqueness under concurrent registrations.
func (u *accountUsecase) CreateAccount(ctx context.Context, params CreateAccountParams) error {
	return u.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
			return ErrEmailRegistered
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}

		identityToken, err := security.GenerateOpaqueToken(identityTokenBytes)
		if err != nil {
			return err
		}

		passwordHash, err := security.HashPassword(params.Password)
		if err != nil {
			return err
		}

		_, err = u.userRepo.CreateUser(ctx, &model.User{
			Email:         params.Email,
			FullName:      params.FullName,
			Phone:         params.Phone,
			Address:       params.Address,
			Password:      passwordHash,
			IdentityToken: identityToken,
		})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrEmailRegistered
			}
			return err
		}

		return nil
	})
}

// CheckAvailability reports ErrEmailRegistered when the email is taken.
func (u *accountUsecase) CheckAvailability(ctx context.Context, email string) error {
	_, err := u.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return ErrEmailRegistered
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

// UpdateAccount applies a partial update to the allow-listed profile fields.
// A new password is re-hashed before it is written.
func (u *accountUsecase) UpdateAccount(
	ctx context.Context,
	userID bson.ObjectID,
	params UpdateAccountParams,
) (*model.User, error) {
	if params.FullName == nil && params.Phone == nil && params.Address == nil &&
		params.Password == nil && params.Avatar == nil {
		return nil, ErrNoUpdatableField
	}

	updateParams := repository.UpdateUserParams{
		FullName: params.FullName,
		Phone:    params.Phone,
		Address:  params.Address,
		Avatar:   params.Avatar,
	}

	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		updateParams.Password = &passwordHash
	}

	var updated *model.User
	err := u.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := u.userRepo.UpdateUser(ctx, userID, updateParams)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
