package models

import "time"

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
)

// Log is the row shape for application logs written by the async log writer.
type Log struct {
	Message      string    `bson:"message"`
	Caller       string    `bson:"caller,omitempty"`
	AppId        string    `bson:"app_id"`
	LogLevelId   int       `bson:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc"`
}
