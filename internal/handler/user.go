package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farmbit/mobile-api/internal/usecase"
	"github.com/farmbit/mobile-api/shared/httputil"
	"github.com/farmbit/mobile-api/shared/upload"
	"github.com/farmbit/mobile-api/shared/validation"
)

const avatarsDir = "avatars"

// UserHandler serves the account endpoints.
type UserHandler struct {
	accountUsecase usecase.AccountUsecase
	authUsecase    usecase.AuthUsecase
	resetUsecase   usecase.PasswordResetUsecase
	validate       *validation.Validator
	saver          *upload.Saver
	logger         *zerolog.Logger
	maxFileSizeMB  int
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(
	accountUsecase usecase.AccountUsecase,
	authUsecase usecase.AuthUsecase,
	resetUsecase usecase.PasswordResetUsecase,
	validate *validation.Validator,
	saver *upload.Saver,
	logger *zerolog.Logger,
	maxFileSizeMB int,
) *UserHandler {
	return &UserHandler{
		accountUsecase: accountUsecase,
		authUsecase:    authUsecase,
		resetUsecase:   resetUsecase,
		validate:       validate,
		saver:          saver,
		logger:         logger,
		maxFileSizeMB:  maxFileSizeMB,
	}
}

// CreateUser handles POST /v1/user.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, []string{"invalid request body"})
		return
	}

	if messages := h.validate.Validate(req); messages != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	err := h.accountUsecase.CreateAccount(r.Context(), usecase.CreateAccountParams{
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEmailRegistered) {
			httputil.FailValidation(w, httputil.CodeValidationError,
				[]string{"This email address is already registered"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to create user")
		httputil.FailServer(w)
		return
	}

	httputil.RespondCreated(w, "User account created", nil)
}

// CheckAvailability handles POST /v1/user/availability.
func (h *UserHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httputil.FailNotFound(w, httputil.CodeValidationError, "No input provided")
		return
	}

	err := h.accountUsecase.CheckAvailability(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailRegistered) {
			httputil.FailValidation(w, httputil.CodeAccountNotAvailable, []string{"Email is registered"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to check availability")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "Account available", nil)
}

// Authenticate handles GET /v1/user/authenticate with Basic credentials.
// Unknown emails and wrong passwords produce the same response so the
// endpoint cannot be used to enumerate accounts.
func (h *UserHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		httputil.FailUnauthorized(w, httputil.CodeInvalidCredentials, "Missing Authorization Header")
		return
	}

	pair, err := h.authUsecase.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			httputil.FailUnauthorized(w, httputil.CodeInvalidCredentials, "Invalid username, email or password")
			return
		}
		h.logger.Error().Err(err).Msg("failed to authenticate user")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "", TokenPairResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             "Bearer",
		AccessTokenExpiresIn:  pair.AccessTokenExpiresIn.String(),
		RefreshTokenExpiresIn: pair.RefreshTokenExpiresIn.String(),
	})
}

// RefreshTokens handles GET /v1/user/token. The refresh token middleware has
// already validated the claim.
func (h *UserHandler) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	identityToken, ok := IdentityTokenFromContext(r.Context())
	if !ok {
		httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
		return
	}

	pair, err := h.authUsecase.RefreshTokens(r.Context(), identityToken)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
			return
		}
		h.logger.Error().Err(err).Msg("failed to refresh tokens")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "", TokenPairResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             "Bearer",
		AccessTokenExpiresIn:  pair.AccessTokenExpiresIn.String(),
		RefreshTokenExpiresIn: pair.RefreshTokenExpiresIn.String(),
	})
}

// GetProfile handles GET /v1/user.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
		return
	}

	httputil.Respond(w, http.StatusOK, "", user)
}

// UpdateUser handles PUT /v1/user. The body may be JSON or multipart; a
// multipart body may carry an avatar file which is validated and relocated
// before the document is saved.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
		return
	}

	req, avatar, err := h.parseUpdateRequest(r)
	if err != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, []string{"invalid request body"})
		return
	}

	if messages := h.validate.Validate(req); messages != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	params := usecase.UpdateAccountParams{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	}

	if params.FullName == nil && params.Phone == nil && params.Address == nil && params.Password == nil {
		httputil.FailNotFound(w, httputil.CodeNoUpdatableField, "No updatable field provided")
		return
	}

	if avatar != nil {
		if !upload.IsImage(avatar.Filename) {
			httputil.FailValidation(w, "invalid-avatar-file", []string{"Avatar must be an image file!"})
			return
		}

		fileName, err := h.saver.Save(avatar, avatarsDir)
		if err != nil {
			if errors.Is(err, upload.ErrFileTooLarge) {
				httputil.FailValidation(w, httputil.CodeValidationError,
					[]string{fmt.Sprintf("File size must not exceed %dMB", h.maxFileSizeMB)})
				return
			}
			h.logger.Error().Err(err).Msg("failed to upload avatar")
			httputil.FailServer(w)
			return
		}
		params.Avatar = &fileName
	}

	if _, err := h.accountUsecase.UpdateAccount(r.Context(), user.ID, params); err != nil {
		h.logger.Error().Err(err).Msg("failed to update user")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "User updated", nil)
}

// InitiatePasswordReset handles POST /v1/user/password_reset/init.
func (h *UserHandler) InitiatePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req InitiatePasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, []string{"invalid request body"})
		return
	}

	if messages := h.validate.Validate(req); messages != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	if err := h.resetUsecase.Initiate(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrEmailNotFound) {
			httputil.FailNotFound(w, httputil.CodeEmailNotFound, "This email is not registered.")
			return
		}
		h.logger.Error().Err(err).Msg("failed to initiate password reset")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "Verification code sent", nil)
}

// FinalizePasswordReset handles POST /v1/user/password_reset/finalize.
func (h *UserHandler) FinalizePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req FinalizePasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, []string{"invalid request body"})
		return
	}

	if messages := h.validate.Validate(req); messages != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	if err := h.resetUsecase.Finalize(r.Context(), req.VerificationCode, req.NewPassword); err != nil {
		if errors.Is(err, usecase.ErrVerificationNotFound) {
			httputil.FailNotFound(w, httputil.CodeVerificationNotFound, "Invalid verification code")
			return
		}
		h.logger.Error().Err(err).Msg("failed to finalize password reset")
		httputil.FailServer(w)
		return
	}

	httputil.Respond(w, http.StatusOK, "Password updated", nil)
}

func (h *UserHandler) parseUpdateRequest(r *http.Request) (UpdateUserRequest, *multipart.FileHeader, error) {
	var req UpdateUserRequest

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, nil, err
		}
		return req, nil, nil
	}

	// Parse with a generous memory limit; oversize files are rejected later
	// against the configured ceiling.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return req, nil, err
	}

	req.FullName = formValue(r, "full_name")
	req.Phone = formValue(r, "phone")
	req.Address = formValue(r, "address")
	req.Password = formValue(r, "password")

	_, header, err := r.FormFile("avatar")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, nil
		}
		return req, nil, err
	}

	return req, header, nil
}

// formValue distinguishes an absent form field from an empty one.
func formValue(r *http.Request, key string) *string {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
