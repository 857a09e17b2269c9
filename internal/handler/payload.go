package handler

// CreateUserRequest is the account creation payload.
type CreateUserRequest struct {
	Email    string `json:"email"     validate:"required,email,max=50"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone"     validate:"required,min=11,max=15"`
	Address  string `json:"address"   validate:"required,max=500"`
	Password string `json:"password"  validate:"required,min=6"`
}

// AvailabilityRequest asks whether an email is still available.
type AvailabilityRequest struct {
	Email string `json:"email" validate:"required,email,max=50"`
}

// UpdateUserRequest is the partial profile update payload. Absent fields stay
// nil and are not written.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone"     validate:"omitempty,min=11,max=15"`
	Address  *string `json:"address"   validate:"omitempty,max=500"`
	Password *string `json:"password"  validate:"omitempty,min=6"`
}

// InitiatePasswordResetRequest starts the password reset flow.
type InitiatePasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=50"`
}

// FinalizePasswordResetRequest consumes a verification code.
type FinalizePasswordResetRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
	NewPassword      string `json:"new_password"      validate:"required,min=6"`
	ConfirmPassword  string `json:"confirm_password"  validate:"required,eqfield=NewPassword"`
}

// CreateBusinessRequest is the business creation payload. The banner and
// logo arrive as multipart file fields, not here.
type CreateBusinessRequest struct {
	Name          string `json:"name"           validate:"required,max=100"`
	Description   string `json:"description"    validate:"required,max=5000"`
	Type          string `json:"type"           validate:"required,oneof=FARM EXTENSION SERVICE"`
	Phone         string `json:"phone"          validate:"required,min=11,max=15"`
	Address       string `json:"address"        validate:"required,max=200"`
	Country       string `json:"country"        validate:"required,max=30"`
	City          string `json:"city"           validate:"required,max=30"`
	State         string `json:"state"          validate:"required,max=30"`
	AccountName   string `json:"account_name"   validate:"required"`
	AccountNumber string `json:"account_number" validate:"required,len=10"`
	BankName      string `json:"bank_name"      validate:"required"`
	Twitter       string `json:"twitter"        validate:"required"`
	Facebook      string `json:"facebook"       validate:"required"`
	Instagram     string `json:"instagram"      validate:"required"`
	LinkedIn      string `json:"linkedin"       validate:"required"`
}

// TokenPairResponse is the envelope data for authentication and refresh.
type TokenPairResponse struct {
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	TokenType             string `json:"token_type"`
	AccessTokenExpiresIn  string `json:"access_token_expires_in"`
	RefreshTokenExpiresIn string `json:"refresh_token_expires_in"`
}
