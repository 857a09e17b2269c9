package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Verification purposes.
const (
	VerificationAccountCreation = "ACCOUNT_CREATION"
	VerificationPasswordReset   = "PASSWORD_RESET"
	VerificationOther           = "OTHER"
)

// PendingVerification links a single-use verification code to a user and a
// purpose. Records are deleted when the flow is finalized; a TTL index on
// expires_at reaps those that never are.
type PendingVerification struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	VerificationType string        `bson:"verification_type"`
	VerificationCode string        `bson:"verification_code"`
	UserID           bson.ObjectID `bson:"user"`
	ExpiresAt        time.Time     `bson:"expires_at"`
	CreatedAt        time.Time     `bson:"created_at"`
}
