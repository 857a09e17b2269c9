package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/rs/zerolog"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/usecase"
	"github.com/farmbit/mobile-api/shared/httputil"
	"github.com/farmbit/mobile-api/shared/upload"
	"github.com/farmbit/mobile-api/shared/validation"
)

var businessImagesDir = path.Join("businesses", "images")

// BusinessHandler serves the business endpoints.
type BusinessHandler struct {
	businessUsecase usecase.BusinessUsecase
	validate        *validation.Validator
	saver           *upload.Saver
	logger          *zerolog.Logger
	maxFileSizeMB   int
}

// NewBusinessHandler creates a new BusinessHandler instance.
func NewBusinessHandler(
	businessUsecase usecase.BusinessUsecase,
	validate *validation.Validator,
	saver *upload.Saver,
	logger *zerolog.Logger,
	maxFileSizeMB int,
) *BusinessHandler {
	return &BusinessHandler{
		businessUsecase: businessUsecase,
		validate:        validate,
		saver:           saver,
		logger:          logger,
		maxFileSizeMB:   maxFileSizeMB,
	}
}

// CreateBusiness handles POST /v1/business. Every duplicate and file check
// runs before any upload or write, and all collected errors come back in one
// response; the rejected path has no side effects.
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, []string{"invalid multipart body"})
		return
	}

	req := CreateBusinessRequest{
		Name:          r.FormValue("name"),
		Description:   r.FormValue("description"),
		Type:          r.FormValue("type"),
		Phone:         r.FormValue("phone"),
		Address:       r.FormValue("address"),
		Country:       r.FormValue("country"),
		City:          r.FormValue("city"),
		State:         r.FormValue("state"),
		AccountName:   r.FormValue("account_name"),
		AccountNumber: r.FormValue("account_number"),
		BankName:      r.FormValue("bank_name"),
		Twitter:       r.FormValue("twitter"),
		Facebook:      r.FormValue("facebook"),
		Instagram:     r.FormValue("instagram"),
		LinkedIn:      r.FormValue("linkedin"),
	}

	if messages := h.validate.Validate(req); messages != nil {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	dupMessages, err := h.businessUsecase.DuplicateMessages(r.Context(), req.Name, req.Phone, req.AccountNumber)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to run business duplicate checks")
		httputil.FailServer(w)
		return
	}

	banner, bannerMessages := h.checkImageFile(r, "banner", "Banner")
	logo, logoMessages := h.checkImageFile(r, "logo", "Logo")

	messages := append(dupMessages, bannerMessages...)
	messages = append(messages, logoMessages...)
	if len(messages) > 0 {
		httputil.FailValidation(w, httputil.CodeValidationError, messages)
		return
	}

	bannerName, err := h.saver.Save(banner, businessImagesDir)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upload business banner")
		httputil.FailServer(w)
		return
	}

	logoName, err := h.saver.Save(logo, businessImagesDir)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upload business logo")
		httputil.FailServer(w)
		return
	}

	business := &model.Business{
		UserID:        user.ID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          req.Type,
		Banner:        bannerName,
		Logo:          logoName,
		Address:       req.Address,
		Country:       req.Country,
		State:         req.State,
		City:          req.City,
		Phone:         req.Phone,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Twitter:       req.Twitter,
		Facebook:      req.Facebook,
		Instagram:     req.Instagram,
		LinkedIn:      req.LinkedIn,
	}

	if err := h.businessUsecase.CreateBusiness(r.Context(), business); err != nil {
		if errors.Is(err, usecase.ErrBusinessConflict) {
			httputil.FailValidation(w, httputil.CodeValidationError,
				[]string{"This business conflicts with an existing one"})
			return
		}
		h.logger.Error().Err(err).Msg("failed to create business")
		httputil.FailServer(w)
		return
	}

	httputil.RespondCreated(w, "Business created", nil)
}

// checkImageFile collects presence, size and extension errors for a multipart
// image field without writing anything.
func (h *BusinessHandler) checkImageFile(
	r *http.Request,
	field, label string,
) (*multipart.FileHeader, []string) {
	_, header, err := r.FormFile(field)
	if err != nil {
		return nil, []string{fmt.Sprintf("%s is required", label)}
	}

	var messages []string
	if header.Size > int64(h.maxFileSizeMB)*1024*1024 {
		messages = append(messages, fmt.Sprintf("%s size must not exceed %dMB", label, h.maxFileSizeMB))
	}
	if !upload.IsImage(header.Filename) {
		messages = append(messages, fmt.Sprintf("%s must be an image file", label))
	}

	return header, messages
}
