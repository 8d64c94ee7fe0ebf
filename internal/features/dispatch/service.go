package dispatch

import (
	"context"

	"go-cet-sync/internal/features/record"

	"go.uber.org/zap"
)

// DispatchService is the entry point the trigger layer calls after a record
// insert or update. Nothing it does ever propagates an error back; all
// failure is observable only through the audit log.
type DispatchService interface {
	OnRecordChanged(ctx context.Context, entityType record.EntityType, rec record.SourceRecord)
}

type DispatchServiceImpl struct {
	Resolver   Resolver
	Dispatcher Dispatcher
	EventLog   EventLogger
	Logger     *zap.Logger
}

func NewDispatchService(resolver Resolver, dispatcher Dispatcher, eventLog EventLogger, logger *zap.Logger) DispatchService {
	return &DispatchServiceImpl{
		Resolver:   resolver,
		Dispatcher: dispatcher,
		EventLog:   eventLog,
		Logger:     logger,
	}
}

func (s *DispatchServiceImpl) OnRecordChanged(ctx context.Context, entityType record.EntityType, rec record.SourceRecord) {
	pairs := s.Resolver.ResolveConnections(ctx, rec, entityType)
	if len(pairs) == 0 {
		return
	}

	var outcomes []Outcome
	for _, pair := range pairs {
		outcome := s.Dispatcher.Dispatch(ctx, pair.ConnectionID, pair.Payload)
		if outcome.Skipped {
			// Unusable credentials are not logged on the live path. The
			// historical path records them as failures instead.
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	// One coalesced async batch per originating change.
	s.EventLog.LogOutcomes(rec.ID(), entityType, outcomes)
}
