package dispatch

import (
	"context"
	"fmt"
	"time"

	"go-cet-sync/internal/database"
	"go-cet-sync/internal/features/record"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// relationFields maps known entity types to the log-entry field that carries
// the originating record id. Unknown and custom entity types have no column
// of their own; their id is embedded in the response text instead.
var relationFields = map[record.EntityType]string{
	record.EntityLead:        "lead_id",
	record.EntityContact:     "contact_id",
	record.EntityAccount:     "account_id",
	record.EntityOpportunity: "opportunity_id",
}

// NewLogEntry builds the append-only audit document for one dispatch attempt.
func NewLogEntry(recordID string, recordType record.EntityType, outcome Outcome) bson.M {
	status := StatusFailed
	if outcome.Success() {
		status = StatusSuccess
	}

	responseText := outcome.RequestBody
	if outcome.ResponseBody != "" {
		responseText = outcome.ResponseBody + "\nRequest: " + outcome.RequestBody
	}

	return newEntry(recordID, recordType, status, responseText)
}

// NewFailureEntry builds an audit document for an attempt that never reached
// the wire (missing credentials, mapping fault).
func NewFailureEntry(recordID string, recordType record.EntityType, message string) bson.M {
	return newEntry(recordID, recordType, StatusFailed, message)
}

func newEntry(recordID string, recordType record.EntityType, status, responseText string) bson.M {
	entry := bson.M{
		"status":      status,
		"record_type": string(recordType),
		"created_at":  time.Now(),
	}

	if field, ok := relationFields[recordType]; ok {
		entry[field] = recordID
	} else {
		responseText = fmt.Sprintf("%s ID: %s\n%s", recordType, recordID, responseText)
	}
	entry["response_text"] = responseText

	return entry
}

// EventLogger records dispatch outcomes durably, out of band from the work
// that produced them.
type EventLogger interface {
	// LogOutcomes queues one coalesced batch of entries for the outcomes of
	// a single originating change. It never blocks and never fails.
	LogOutcomes(recordID string, recordType record.EntityType, outcomes []Outcome)

	// InsertEntries writes prepared entries in one bulk insert. Used by the
	// historical engine's flush.
	InsertEntries(ctx context.Context, entries []bson.M) error
}

type EventLoggerImpl struct {
	collection string
	db         *database.MongodbDB
	batchChan  chan []bson.M
	logger     *zap.Logger
}

func NewEventLogger(db *database.MongodbDB, logger *zap.Logger) EventLogger {
	l := &EventLoggerImpl{
		collection: "sync_event_logs",
		db:         db,
		batchChan:  make(chan []bson.M, 256),
		logger:     logger,
	}

	go l.processBatches()

	return l
}

func (l *EventLoggerImpl) LogOutcomes(recordID string, recordType record.EntityType, outcomes []Outcome) {
	entries := make([]bson.M, 0, len(outcomes))
	for _, out := range outcomes {
		entries = append(entries, NewLogEntry(recordID, recordType, out))
	}
	if len(entries) == 0 {
		return
	}

	select {
	case l.batchChan <- entries:
	default:
		// Channel full: drop rather than stall the dispatch path.
		l.logger.Warn("event log channel full, dropping batch", zap.Int("entries", len(entries)))
	}
}

func (l *EventLoggerImpl) InsertEntries(ctx context.Context, entries []bson.M) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}

	_, err := l.db.DB.Collection(l.collection).InsertMany(ctx, docs)
	return err
}

func (l *EventLoggerImpl) processBatches() {
	for entries := range l.batchChan {
		// Insert failures are reported to the debug channel only; the audit
		// trail is best-effort by contract.
		if err := l.InsertEntries(context.Background(), entries); err != nil {
			l.logger.Debug("event log insert failed", zap.Int("entries", len(entries)), zap.Error(err))
		}
	}
}
