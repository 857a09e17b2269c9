package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered account. The IdentityToken is a random opaque
// string used as the subject of issued JWTs instead of the database ID, so
// that all outstanding tokens can be revoked by rotating it.
type User struct {
	ID            bson.ObjectID `bson:"_id,omitempty"  json:"id"`
	Role          string        `bson:"role"           json:"role"`
	Email         string        `bson:"email"          json:"email"`
	FullName      string        `bson:"full_name"      json:"full_name"`
	Phone         string        `bson:"phone"          json:"phone"`
	Address       string        `bson:"address"        json:"address"`
	Avatar        string        `bson:"avatar"         json:"avatar"`
	Password      string        `bson:"password"       json:"-"`
	IdentityToken string        `bson:"id_token"       json:"-"`
	CreatedAt     time.Time     `bson:"created_at"     json:"created_at"`
	UpdatedAt     time.Time     `bson:"updated_at"     json:"updated_at"`
}
