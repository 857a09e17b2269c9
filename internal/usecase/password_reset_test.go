package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/shared/security"
)

func newResetFixture(t *testing.T) (*fakeUserRepo, *fakeVerificationRepo, *fakeMailSender, PasswordResetUsecase) {
	t.Helper()

	user := seededUser(t, "a@x.com", "old-password")
	userRepo := newFakeUserRepo(user)
	verificationRepo := newFakeVerificationRepo()
	mail := &fakeMailSender{}
	u := NewPasswordResetUsecase(userRepo, verificationRepo, &fakeTransactor{}, mail, time.Hour)
	return userRepo, verificationRepo, mail, u
}

func TestInitiateCreatesCodeAndSendsMail(t *testing.T) {
	_, verificationRepo, mail, u := newResetFixture(t)

	if err := u.Initiate(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("initiate: %v", err)
	}

	if len(verificationRepo.verifications) != 1 {
		t.Fatalf("expected one pending verification, got %d", len(verificationRepo.verifications))
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mail.sent))
	}

	for code, verification := range verificationRepo.verifications {
		if len(code) != 4 {
			t.Fatalf("expected a 4-digit code, got %q", code)
		}
		if verification.VerificationType != model.VerificationPasswordReset {
			t.Fatalf("unexpected verification type %q", verification.VerificationType)
		}
		if verification.ExpiresAt.IsZero() {
			t.Fatalf("verification must carry an expiry")
		}
		if !strings.Contains(mail.sent[0].body, code) {
			t.Fatalf("email body must carry the code %q: %q", code, mail.sent[0].body)
		}
	}
}

func TestInitiateIsIdempotent(t *testing.T) {
	_, verificationRepo, mail, u := newResetFixture(t)

	if err := u.Initiate(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("first initiate: %v", err)
	}
	if err := u.Initiate(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("second initiate: %v", err)
	}

	if len(verificationRepo.verifications) != 1 {
		t.Fatalf("repeated initiate must reuse the pending code, got %d records",
			len(verificationRepo.verifications))
	}
	if len(mail.sent) != 2 {
		t.Fatalf("both requests must send the code, got %d emails", len(mail.sent))
	}
	if !strings.Contains(mail.sent[1].body, codeOf(t, verificationRepo)) {
		t.Fatalf("second email must carry the same code")
	}
}

func TestInitiateUnknownEmail(t *testing.T) {
	_, verificationRepo, mail, u := newResetFixture(t)

	err := u.Initiate(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
	if len(verificationRepo.verifications) != 0 || len(mail.sent) != 0 {
		t.Fatalf("failed initiate must have no side effects")
	}
}

func TestFinalizeUpdatesPasswordAndConsumesCode(t *testing.T) {
	userRepo, verificationRepo, _, u := newResetFixture(t)

	if err := u.Initiate(context.Background(), "a@x.com"); err != nil {
		t.Fatalf("initiate: %v", err)
	}
	code := codeOf(t, verificationRepo)

	if err := u.Finalize(context.Background(), code, "new-password"); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	user, err := userRepo.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if ok, _ := security.VerifyPassword("old-password", user.Password); ok {
		t.Fatalf("old password must no longer verify")
	}
	if ok, _ := security.VerifyPassword("new-password", user.Password); !ok {
		t.Fatalf("new password must verify")
	}

	// The code is single-use.
	if err := u.Finalize(context.Background(), code, "another-password"); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("reused code must fail with ErrVerificationNotFound, got %v", err)
	}
}

func TestFinalizeUnknownCode(t *testing.T) {
	_, _, _, u := newResetFixture(t)

	err := u.Finalize(context.Background(), "0000", "new-password")
	if !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateVerificationCode(4)
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	}
}

func codeOf(t *testing.T, repo *fakeVerificationRepo) string {
	t.Helper()

	if len(repo.verifications) != 1 {
		t.Fatalf("expected exactly one verification, got %d", len(repo.verifications))
	}
	for code := range repo.verifications {
		return code
	}
	return ""
}
