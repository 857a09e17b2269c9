package handler

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/usecase"
	"github.com/farmbit/mobile-api/shared/auth"
	"github.com/farmbit/mobile-api/shared/upload"
	"github.com/farmbit/mobile-api/shared/validation"
)

type fakeAccountUsecase struct {
	createErr       error
	availabilityErr error
	updateErr       error
	createdParams   *usecase.CreateAccountParams
	updatedParams   *usecase.UpdateAccountParams
}

func (f *fakeAccountUsecase) CreateAccount(_ context.Context, params usecase.CreateAccountParams) error {
	f.createdParams = &params
	return f.createErr
}

func (f *fakeAccountUsecase) CheckAvailability(_ context.Context, _ string) error {
	return f.availabilityErr
}

func (f *fakeAccountUsecase) UpdateAccount(
	_ context.Context,
	_ bson.ObjectID,
	params usecase.UpdateAccountParams,
) (*model.User, error) {
	f.updatedParams = &params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &model.User{}, nil
}

type fakeAuthUsecase struct {
	pair       *auth.TokenPair
	authErr    error
	refreshErr error
	users      map[string]*model.User // keyed by identity token
}

func (f *fakeAuthUsecase) Authenticate(_ context.Context, _, _ string) (*auth.TokenPair, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.pair, nil
}

func (f *fakeAuthUsecase) RefreshTokens(_ context.Context, _ string) (*auth.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeAuthUsecase) ResolveIdentity(_ context.Context, identityToken string) (*model.User, error) {
	user, ok := f.users[identityToken]
	if !ok {
		return nil, usecase.ErrInvalidToken
	}
	return user, nil
}

type fakePasswordResetUsecase struct {
	initiateErr error
	finalizeErr error
	finalized   []string
}

func (f *fakePasswordResetUsecase) Initiate(_ context.Context, _ string) error {
	return f.initiateErr
}

func (f *fakePasswordResetUsecase) Finalize(_ context.Context, code, _ string) error {
	f.finalized = append(f.finalized, code)
	return f.finalizeErr
}

type fakeBusinessUsecase struct {
	dupMessages []string
	dupErr      error
	createErr   error
	created     *model.Business
}

func (f *fakeBusinessUsecase) DuplicateMessages(_ context.Context, _, _, _ string) ([]string, error) {
	return f.dupMessages, f.dupErr
}

func (f *fakeBusinessUsecase) CreateBusiness(_ context.Context, business *model.Business) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = business
	return nil
}

func contextWithTestUser(ctx context.Context) context.Context {
	user := &model.User{ID: bson.NewObjectID(), Role: model.RoleUser}
	return context.WithValue(ctx, userKey, user)
}

func testValidator(t *testing.T) *validation.Validator {
	t.Helper()

	v, err := validation.New()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func testSaver(t *testing.T) *upload.Saver {
	t.Helper()
	return upload.NewSaver(t.TempDir(), 1<<20)
}
