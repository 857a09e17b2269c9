package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/repository"
	"github.com/farmbit/mobile-api/shared/security"
)

// PasswordResetUsecase defines the password reset flow.
type PasswordResetUsecase interface {
	// Initiate creates (or re-sends) a verification code for the email.
	// Repeated calls before finalization reuse the same code.
	Initiate(ctx context.Context, email string) error

	// Finalize consumes a verification code and sets the new password.
	Finalize(ctx context.Context, code, newPassword string) error
}

// MailSender delivers verification codes. Satisfied by mailer.Mailer.
type MailSender interface {
	SendSimple(to []string, subject, body string) error
}

var (
	ErrEmailNotFound        = errors.New("email is not registered")
	ErrVerificationNotFound = errors.New("invalid verification code")
)

const (
	verificationCodeDigits  = 4
	verificationCodeRetries = 3
)

type passwordResetUsecase struct {
	userRepo         repository.UserRepository
	verificationRepo repository.PendingVerificationRepository
	transactor       repository.Transactor
	mail             MailSender
	codeExpiry       time.Duration
}

// NewPasswordResetUsecase creates a new PasswordResetUsecase instance.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	verificationRepo repository.PendingVerificationRepository,
	transactor repository.Transactor,
	mail MailSender,
	codeExpiry time.Duration,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		transactor:       transactor,
		mail:             mail,
		codeExpiry:       codeExpiry,
	}
}

// Initiate runs inside a single transaction scope; the lookup, the optional
// insert and nothing else. The code email goes out after the write succeeds.
func (u *passwordResetUsecase) Initiate(ctx context.Context, email string) error {
	var user *model.User
	var code string

	err := u.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrEmailNotFound
			}
			return err
		}
		user = found

		existing, err := u.verificationRepo.GetByUserAndType(ctx, user.ID, model.VerificationPasswordReset)
		if err == nil {
			// Idempotent: re-send the pending code instead of minting another.
			code = existing.VerificationCode
			return nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}

		// Codes are short, so a collision with another pending record is
		// possible; regenerate on a duplicate key instead of failing.
		for attempt := 0; attempt < verificationCodeRetries; attempt++ {
			generated, err := generateVerificationCode(verificationCodeDigits)
			if err != nil {
				return err
			}

			_, err = u.verificationRepo.CreateVerification(ctx, &model.PendingVerification{
				VerificationType: model.VerificationPasswordReset,
				VerificationCode: generated,
				UserID:           user.ID,
				ExpiresAt:        time.Now().Add(u.codeExpiry),
			})
			if err == nil {
				code = generated
				return nil
			}
			if !mongo.IsDuplicateKeyError(err) {
				return err
			}
		}

		return errors.New("failed to generate a unique verification code")
	})
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Your FarmBit password reset code is %s. It expires in %s. "+
			"If you did not request a password reset, you can ignore this message.",
		code, u.codeExpiry,
	)

	return u.mail.SendSimple([]string{user.Email}, "Password Reset Code", body)
}

// Finalize updates the password and deletes the verification record in the
// same transaction, so the code is single-use.
func (u *passwordResetUsecase) Finalize(ctx context.Context, code, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return u.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		verification, err := u.verificationRepo.GetByCodeAndType(ctx, code, model.VerificationPasswordReset)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrVerificationNotFound
			}
			return err
		}

		if _, err := u.userRepo.UpdateUser(ctx, verification.UserID, repository.UpdateUserParams{
			Password: &passwordHash,
		}); err != nil {
			return err
		}

		return u.verificationRepo.DeleteByCode(ctx, code)
	})
}

// generateVerificationCode returns a random numeric code of the given length.
func generateVerificationCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}
