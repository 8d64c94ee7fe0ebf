package historical

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-cet-sync/internal/features/dispatch"
	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Cursor is a restartable position in the full scan over one entity type.
type Cursor struct {
	Entity  record.EntityType
	Fields  []string
	afterID primitive.ObjectID
	done    bool
}

// Done reports whether the scan is exhausted.
func (c *Cursor) Done() bool {
	return c.done
}

// Engine replays every record of one entity type through the mapping and
// dispatch pipeline for a single, fixed configuration. One engine instance
// is sequential across its own chunks; its counters and buffered log
// entries are instance state, never shared.
type Engine struct {
	cfg      *syncconfig.SyncConfiguration
	mappings []syncconfig.FieldMapping

	records    record.RecordRepository
	dispatcher dispatch.Dispatcher
	eventLog   dispatch.EventLogger
	logger     *zap.Logger

	source  string
	summary bool

	counters Counters
	buffered []bson.M
}

func NewEngine(
	cfg *syncconfig.SyncConfiguration,
	mappings []syncconfig.FieldMapping,
	records record.RecordRepository,
	dispatcher dispatch.Dispatcher,
	eventLog dispatch.EventLogger,
	logger *zap.Logger,
	source string,
	summary bool,
) *Engine {
	return &Engine{
		cfg:        cfg,
		mappings:   mappings,
		records:    records,
		dispatcher: dispatcher,
		eventLog:   eventLog,
		logger:     logger,
		source:     source,
		summary:    summary,
	}
}

// Start computes the minimal field set to query and returns a cursor over
// all records of the configuration's source entity. The field set is the
// union of every mapping's source field, filtered to fields that look
// queryable for the entity type, plus Id always.
func (e *Engine) Start(ctx context.Context) (*Cursor, error) {
	entity := record.EntityType(e.cfg.SourceEntity)

	seen := map[string]bool{"Id": true}
	fields := []string{"Id"}
	for _, m := range e.mappings {
		f := m.SourceField
		if seen[f] || !record.QueryableField(entity, f) {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}

	total, err := e.records.Count(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("counting %s records: %w", entity, err)
	}
	e.logger.Info("historical sync starting",
		zap.String("configuration", e.cfg.Name),
		zap.String("entity", string(entity)),
		zap.Int64("records", total),
		zap.Strings("fields", fields))

	return &Cursor{Entity: entity, Fields: fields}, nil
}

// FetchChunk pulls the next bounded chunk and advances the cursor.
func (e *Engine) FetchChunk(ctx context.Context, cur *Cursor, size int) ([]record.SourceRecord, error) {
	if cur.done {
		return nil, nil
	}

	records, lastID, err := e.records.ListPage(ctx, cur.Entity, cur.Fields, cur.afterID, int64(size))
	if err != nil {
		return nil, err
	}

	cur.afterID = lastID
	if len(records) < size {
		cur.done = true
	}
	return records, nil
}

// ExecuteChunk maps and dispatches each record in the chunk against the
// engine's single configuration. A failure on one record is counted and
// buffered, never aborts the chunk. Log inserts are deferred to Finish.
func (e *Engine) ExecuteChunk(ctx context.Context, records []record.SourceRecord) {
	entity := record.EntityType(e.cfg.SourceEntity)
	defaultName := DefaultEventName(e.cfg.SourceEntity)

	for _, rec := range records {
		e.counters.Processed++

		payload, err := dispatch.BuildPayload(e.cfg, e.mappings, rec, e.source, defaultName)
		if err != nil {
			if errors.Is(err, dispatch.ErrBlankIdentity) ||
				errors.Is(err, dispatch.ErrNoIdentityMapping) ||
				errors.Is(err, dispatch.ErrNoMappings) {
				// Configuration gap: not an error, not an attempt.
				continue
			}
			e.counters.Failed++
			e.buffered = append(e.buffered, dispatch.NewFailureEntry(rec.ID(), entity, err.Error()))
			continue
		}

		outcome := e.dispatcher.Dispatch(ctx, e.cfg.ConnectionID, payload)
		if outcome.Skipped {
			// Unlike the live path, the batch path records unusable
			// credentials as failures.
			e.counters.Failed++
			e.buffered = append(e.buffered, dispatch.NewFailureEntry(rec.ID(), entity,
				fmt.Sprintf("connection %s credentials missing or incomplete", e.cfg.ConnectionID)))
			continue
		}

		if outcome.Success() {
			e.counters.Succeeded++
		} else {
			e.counters.Failed++
		}
		e.buffered = append(e.buffered, dispatch.NewLogEntry(rec.ID(), entity, outcome))
	}
}

// Finish flushes every buffered log entry in one bulk insert and reports the
// final counters. The optional summary entry describes the run's totals.
func (e *Engine) Finish(ctx context.Context) Counters {
	entity := record.EntityType(e.cfg.SourceEntity)

	if e.summary {
		summary := fmt.Sprintf("Historical sync for %s (%s): processed=%d succeeded=%d failed=%d",
			e.cfg.Name, entity, e.counters.Processed, e.counters.Succeeded, e.counters.Failed)
		status := dispatch.StatusSuccess
		if e.counters.Failed > 0 {
			status = dispatch.StatusFailed
		}
		e.buffered = append(e.buffered, bson.M{
			"status":        status,
			"record_type":   string(entity),
			"response_text": summary,
			"created_at":    time.Now(),
		})
	}

	if err := e.eventLog.InsertEntries(ctx, e.buffered); err != nil {
		// Best-effort, same as the live path's async inserts.
		e.logger.Debug("flushing historical log entries failed",
			zap.Int("entries", len(e.buffered)), zap.Error(err))
	}
	e.buffered = nil

	return e.counters
}

// Counters returns the totals accumulated so far.
func (e *Engine) Counters() Counters {
	return e.counters
}

// DefaultEventName is the substitute event name the batch path uses when an
// event configuration carries no evtName mapping. The live path skips such
// configurations instead; keep the two apart.
func DefaultEventName(sourceEntity string) string {
	return "sf_" + strings.ToLower(sourceEntity)
}
