package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Business types and statuses.
const (
	BusinessTypeFarm      = "FARM"
	BusinessTypeExtension = "EXTENSION"
	BusinessTypeService   = "SERVICE"

	BusinessStatusInactive = "INACTIVE"
	BusinessStatusActive   = "ACTIVE"
)

// Business represents a business profile owned by exactly one user.
// Name, phone, account number, banner and logo are unique across all
// businesses; the unique indexes in the repository are the source of truth.
type Business struct {
	ID            bson.ObjectID `bson:"_id,omitempty"  json:"id"`
	UserID        bson.ObjectID `bson:"user"           json:"user"`
	Name          string        `bson:"name"           json:"name"`
	Description   string        `bson:"description"    json:"description"`
	Type          string        `bson:"type"           json:"type"`
	Banner        string        `bson:"banner"         json:"banner"`
	Logo          string        `bson:"logo"           json:"logo"`
	Address       string        `bson:"address"        json:"address"`
	Country       string        `bson:"country"        json:"country"`
	State         string        `bson:"state"          json:"state"`
	City          string        `bson:"city"           json:"city"`
	Phone         string        `bson:"phone"          json:"phone"`
	AccountName   string        `bson:"account_name"   json:"account_name"`
	AccountNumber string        `bson:"account_number" json:"account_number"`
	BankName      string        `bson:"bank_name"      json:"bank_name"`
	Balance       float64       `bson:"balance"        json:"balance"`
	Twitter       string        `bson:"twitter"        json:"twitter"`
	Facebook      string        `bson:"facebook"       json:"facebook"`
	Instagram     string        `bson:"instagram"      json:"instagram"`
	LinkedIn      string        `bson:"linkedin"       json:"linkedin"`
	Status        string        `bson:"status"         json:"status"`
	CreatedAt     time.Time     `bson:"created_at"     json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"     json:"updated_at"`
}
