package historical

import (
	"context"
	"fmt"
	"time"

	"go-cet-sync/internal/config"
	"go-cet-sync/internal/features/dispatch"
	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BackfillService drives a historical sync engine chunk by chunk for one
// configuration and keeps the durable run record current.
type BackfillService interface {
	Run(ctx context.Context, configurationID string) (*BackfillRun, error)
	ListRuns(ctx context.Context, configurationID string, limit int64) ([]BackfillRun, error)
}

type BackfillServiceImpl struct {
	ConfigService syncconfig.SyncConfigService
	Records       record.RecordRepository
	Dispatcher    dispatch.Dispatcher
	EventLog      dispatch.EventLogger
	RunRepo       BackfillRunRepository
	Config        *config.Config
	Logger        *zap.Logger
}

func NewBackfillService(
	configService syncconfig.SyncConfigService,
	records record.RecordRepository,
	dispatcher dispatch.Dispatcher,
	eventLog dispatch.EventLogger,
	runRepo BackfillRunRepository,
	cfg *config.Config,
	logger *zap.Logger,
) BackfillService {
	return &BackfillServiceImpl{
		ConfigService: configService,
		Records:       records,
		Dispatcher:    dispatcher,
		EventLog:      eventLog,
		RunRepo:       runRepo,
		Config:        cfg,
		Logger:        logger,
	}
}

// Run replays every record of the configuration's source entity through the
// mapping and dispatch pipeline. It runs to completion; per-record failures
// are counted, never fatal. Only a broken cursor aborts the run.
func (s *BackfillServiceImpl) Run(ctx context.Context, configurationID string) (*BackfillRun, error) {
	cfg, mappings, err := s.ConfigService.GetConfiguration(ctx, configurationID)
	if err != nil {
		return nil, fmt.Errorf("loading configuration %s: %w", configurationID, err)
	}

	engine := NewEngine(cfg, mappings, s.Records, s.Dispatcher, s.EventLog, s.Logger,
		s.Config.SourceMarker, s.Config.BatchSummaryLog)

	run := &BackfillRun{
		RunID:           uuid.NewString(),
		ConfigurationID: configurationID,
		SourceEntity:    cfg.SourceEntity,
		Status:          "running",
		StartTime:       time.Now(),
	}
	_ = s.RunRepo.Create(ctx, run)

	cursor, err := engine.Start(ctx)
	if err != nil {
		s.finishRun(ctx, run, engine.Counters(), err)
		return run, err
	}

	var runErr error
	for !cursor.Done() {
		chunk, err := engine.FetchChunk(ctx, cursor, s.Config.BatchChunkSize)
		if err != nil {
			runErr = fmt.Errorf("fetching chunk: %w", err)
			break
		}
		if len(chunk) == 0 {
			break
		}
		engine.ExecuteChunk(ctx, chunk)
	}

	counters := engine.Finish(ctx)
	s.finishRun(ctx, run, counters, runErr)

	s.Logger.Info("historical sync finished",
		zap.String("configuration", cfg.Name),
		zap.String("run", run.RunID),
		zap.Int("processed", counters.Processed),
		zap.Int("succeeded", counters.Succeeded),
		zap.Int("failed", counters.Failed))

	return run, runErr
}

func (s *BackfillServiceImpl) finishRun(ctx context.Context, run *BackfillRun, counters Counters, err error) {
	run.Counters = counters
	run.EndTime = time.Now()
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	} else {
		run.Status = "success"
	}
	_ = s.RunRepo.Update(ctx, run)
}

func (s *BackfillServiceImpl) ListRuns(ctx context.Context, configurationID string, limit int64) ([]BackfillRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.RunRepo.List(ctx, configurationID, limit)
}
