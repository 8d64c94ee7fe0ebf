package historical

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Counters accumulates one run's totals across chunks.
type Counters struct {
	Processed int `json:"processed" bson:"processed"`
	Succeeded int `json:"succeeded" bson:"succeeded"`
	Failed    int `json:"failed" bson:"failed"`
}

// BackfillRun is the durable record of one historical sync execution.
type BackfillRun struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RunID           string             `json:"run_id" bson:"run_id"`
	ConfigurationID string             `json:"configuration_id" bson:"configuration_id"`
	SourceEntity    string             `json:"source_entity" bson:"source_entity"`
	Status          string             `json:"status" bson:"status"` // "running", "success", "failed"
	Counters        Counters           `json:"counters" bson:"counters"`
	StartTime       time.Time          `json:"start_time" bson:"start_time"`
	EndTime         time.Time          `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Error           string             `json:"error,omitempty" bson:"error,omitempty"`
}

// BackfillSchedule registers a recurring backfill for one configuration.
type BackfillSchedule struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConfigurationID string             `json:"configuration_id" bson:"configuration_id"`
	Schedule        string             `json:"schedule" bson:"schedule"` // standard cron expression
	Active          bool               `json:"active" bson:"active"`
	LastRun         *time.Time         `json:"last_run,omitempty" bson:"last_run,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
