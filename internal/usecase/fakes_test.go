package usecase

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/repository"
)

// duplicateKeyError mimics the error Mongo returns when a unique index is
// violated.
func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}},
	}
}

type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeUserRepo struct {
	users       map[string]*model.User // keyed by email
	createCalls int
	createErr   error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, user := range users {
		repo.users[user.Email] = user
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.createCalls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, duplicateKeyError()
	}
	// Mirror the real repo: CreateUser defaults an empty role to USER.
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.ID = bson.NewObjectID()
	r.users[user.Email] = user
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByIdentityToken(_ context.Context, identityToken string) (*model.User, error) {
	for _, user := range r.users {
		if user.IdentityToken == identityToken {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id bson.ObjectID,
	params repository.UpdateUserParams,
) (*model.User, error) {
	for _, user := range r.users {
		if user.ID != id {
			continue
		}
		if params.FullName != nil {
			user.FullName = *params.FullName
		}
		if params.Phone != nil {
			user.Phone = *params.Phone
		}
		if params.Address != nil {
			user.Address = *params.Address
		}
		if params.Password != nil {
			user.Password = *params.Password
		}
		if params.Avatar != nil {
			user.Avatar = *params.Avatar
		}
		copied := *user
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

type fakeVerificationRepo struct {
	verifications map[string]*model.PendingVerification // keyed by code
	deleteCalls   int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{verifications: make(map[string]*model.PendingVerification)}
}

func (r *fakeVerificationRepo) CreateVerification(
	_ context.Context,
	verification *model.PendingVerification,
) (*model.PendingVerification, error) {
	if _, exists := r.verifications[verification.VerificationCode]; exists {
		return nil, duplicateKeyError()
	}
	verification.ID = bson.NewObjectID()
	r.verifications[verification.VerificationCode] = verification
	return verification, nil
}

func (r *fakeVerificationRepo) GetByUserAndType(
	_ context.Context,
	userID bson.ObjectID,
	verificationType string,
) (*model.PendingVerification, error) {
	for _, verification := range r.verifications {
		if verification.UserID == userID && verification.VerificationType == verificationType {
			return verification, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeVerificationRepo) GetByCodeAndType(
	_ context.Context,
	code, verificationType string,
) (*model.PendingVerification, error) {
	verification, ok := r.verifications[code]
	if !ok || verification.VerificationType != verificationType {
		return nil, mongo.ErrNoDocuments
	}
	return verification, nil
}

func (r *fakeVerificationRepo) DeleteByCode(_ context.Context, code string) error {
	r.deleteCalls++
	delete(r.verifications, code)
	return nil
}

type fakeBusinessRepo struct {
	businesses []*model.Business
	createErr  error
}

func (r *fakeBusinessRepo) CreateBusiness(_ context.Context, business *model.Business) (*model.Business, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	business.ID = bson.NewObjectID()
	r.businesses = append(r.businesses, business)
	return business, nil
}

func (r *fakeBusinessRepo) GetBusinessByName(_ context.Context, name string) (*model.Business, error) {
	return r.find(func(b *model.Business) bool { return b.Name == name })
}

func (r *fakeBusinessRepo) GetBusinessByPhone(_ context.Context, phone string) (*model.Business, error) {
	return r.find(func(b *model.Business) bool { return b.Phone == phone })
}

func (r *fakeBusinessRepo) GetBusinessByAccountNumber(
	_ context.Context,
	accountNumber string,
) (*model.Business, error) {
	return r.find(func(b *model.Business) bool { return b.AccountNumber == accountNumber })
}

func (r *fakeBusinessRepo) find(match func(*model.Business) bool) (*model.Business, error) {
	for _, business := range r.businesses {
		if match(business) {
			return business, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeMailSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (s *fakeMailSender) SendSimple(to []string, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
