package connection

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Connection identifies one destination tenant on the engagement platform.
// Created and edited by external configuration workflows; the dispatch core
// only ever reads it.
type Connection struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Region     string             `json:"region,omitempty" bson:"region,omitempty"`
	BaseAPIURL string             `json:"base_api_url" bson:"base_api_url"`
	AccountID  string             `json:"account_id" bson:"account_id"`
	Passcode   string             `json:"passcode" bson:"passcode"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// Credentials is the subset of a connection the dispatcher needs for one
// upload call.
type Credentials struct {
	BaseURL   string
	AccountID string
	Passcode  string
}

// Valid reports whether all required fields are non-blank. The dispatcher
// skips connections that fail this check instead of issuing a request.
func (c Credentials) Valid() bool {
	return c.BaseURL != "" && c.AccountID != "" && c.Passcode != ""
}
