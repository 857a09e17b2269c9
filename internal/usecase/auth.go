package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/repository"
	"github.com/farmbit/mobile-api/shared/auth"
	"github.com/farmbit/mobile-api/shared/security"
)

// AuthUsecase defines the authentication use cases.
type AuthUsecase interface {
	// Authenticate verifies credentials and issues a token pair.
	Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error)

	// RefreshTokens issues a fresh token pair for a valid refresh claim.
	RefreshTokens(ctx context.Context, identityToken string) (*auth.TokenPair, error)

	// ResolveIdentity fetches the user behind an identity token, with the
	// password and identity token stripped for downstream handlers.
	ResolveIdentity(ctx context.Context, identityToken string) (*model.User, error)
}

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid username, email or password")

	ErrInvalidToken = errors.New("invalid token")
)

type authUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
}

// NewAuthUsecase creates a new AuthUsecase instance.
func NewAuthUsecase(userRepo repository.UserRepository, jwtAuth auth.JWTAuthenticator) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
	}
}

func (u *authUsecase) Authenticate(ctx context.Context, email, password string) (*auth.TokenPair, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if ok, err := security.VerifyPassword(password, user.Password); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return u.jwtAuth.GenerateTokenPair(user.IdentityToken)
}

func (u *authUsecase) RefreshTokens(ctx context.Context, identityToken string) (*auth.TokenPair, error) {
	user, err := u.userRepo.GetUserByIdentityToken(ctx, identityToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return u.jwtAuth.GenerateTokenPair(user.IdentityToken)
}

func (u *authUsecase) ResolveIdentity(ctx context.Context, identityToken string) (*model.User, error) {
	user, err := u.userRepo.GetUserByIdentityToken(ctx, identityToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user.Password = ""
	user.IdentityToken = ""

	return user, nil
}
