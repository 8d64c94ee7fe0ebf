package syncconfig

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"

	TargetProfile = "profile"
	TargetEvent   = "event"

	DataTypeText    = "Text"
	DataTypeNumber  = "Number"
	DataTypeDate    = "Date"
	DataTypeBoolean = "Boolean"

	// IdentityField is the reserved destination field carrying the customer
	// identifier. Every configuration needs exactly one mandatory mapping to
	// it before it can dispatch anything.
	IdentityField = "customer_id"

	// EventNameField is the reserved destination field whose mapping supplies
	// the literal event name for event-target configurations.
	EventNameField = "evtName"
)

// SyncConfiguration ties one source entity type to one destination
// connection and a target payload shape. Many configurations may share a
// source entity; each dispatches independently.
type SyncConfiguration struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	SyncType     string             `json:"sync_type,omitempty" bson:"sync_type,omitempty"`
	SourceEntity string             `json:"source_entity" bson:"source_entity"`
	TargetEntity string             `json:"target_entity" bson:"target_entity"` // "profile" or "event"
	Status       string             `json:"status" bson:"status"`               // "Active" or "Inactive"
	ConnectionID string             `json:"connection_id" bson:"connection_id"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// FieldMapping maps one source record field onto one destination field with
// a declared destination data type.
type FieldMapping struct {
	ID                  primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SyncConfigurationID primitive.ObjectID `json:"sync_configuration_id" bson:"sync_configuration_id"`
	DestinationField    string             `json:"destination_field" bson:"destination_field"`
	SourceField         string             `json:"source_field" bson:"source_field"`
	DataType            string             `json:"data_type" bson:"data_type"` // Text, Number, Date, Boolean
	IsMandatory         bool               `json:"is_mandatory" bson:"is_mandatory"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsIdentity reports whether this mapping is the mandatory identity mapping.
func (m FieldMapping) IsIdentity() bool {
	return m.IsMandatory && m.DestinationField == IdentityField
}

// IsEventName reports whether this mapping supplies the event name.
func (m FieldMapping) IsEventName() bool {
	return m.IsMandatory && m.DestinationField == EventNameField
}
