package historical

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler registers recurring backfills with a cron runner. It is the
// batch-execution host that drives engines; engines themselves never own
// scheduling state.
type Scheduler interface {
	CreateSchedule(ctx context.Context, schedule *BackfillSchedule) error
	ListSchedules(ctx context.Context) ([]BackfillSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	Initialize(ctx context.Context) error
	Stop() error
}

type SchedulerImpl struct {
	Repo     BackfillScheduleRepository
	Backfill BackfillService
	Logger   *zap.Logger

	runner  *cron.Cron
	entries map[string]cron.EntryID
	mu      sync.Mutex
}

func NewScheduler(repo BackfillScheduleRepository, backfill BackfillService, logger *zap.Logger) Scheduler {
	return &SchedulerImpl{
		Repo:     repo,
		Backfill: backfill,
		Logger:   logger,
		entries:  make(map[string]cron.EntryID),
	}
}

func (s *SchedulerImpl) CreateSchedule(ctx context.Context, schedule *BackfillSchedule) error {
	if _, err := cron.ParseStandard(schedule.Schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	if schedule.ConfigurationID == "" {
		return fmt.Errorf("configuration_id is required")
	}

	if err := s.Repo.Create(ctx, schedule); err != nil {
		return err
	}

	if schedule.Active {
		s.register(schedule)
	}
	return nil
}

func (s *SchedulerImpl) ListSchedules(ctx context.Context) ([]BackfillSchedule, error) {
	return s.Repo.List(ctx)
}

func (s *SchedulerImpl) DeleteSchedule(ctx context.Context, id string) error {
	s.mu.Lock()
	if entryID, ok := s.entries[id]; ok {
		if s.runner != nil {
			s.runner.Remove(entryID)
		}
		delete(s.entries, id)
	}
	s.mu.Unlock()

	return s.Repo.Delete(ctx, id)
}

// Initialize starts the cron runner and registers every active schedule.
func (s *SchedulerImpl) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.runner = cron.New()
	s.mu.Unlock()

	schedules, err := s.Repo.ListActive(ctx)
	if err != nil {
		return err
	}

	for i := range schedules {
		s.register(&schedules[i])
	}

	s.runner.Start()
	s.Logger.Info("backfill scheduler started", zap.Int("schedules", len(schedules)))
	return nil
}

func (s *SchedulerImpl) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner != nil {
		s.runner.Stop()
	}
	return nil
}

func (s *SchedulerImpl) register(schedule *BackfillSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == nil {
		return
	}

	id := schedule.ID.Hex()
	configID := schedule.ConfigurationID

	entryID, err := s.runner.AddFunc(schedule.Schedule, func() {
		// Runs outside any request; a fresh engine per run keeps chunk
		// state isolated.
		if _, err := s.Backfill.Run(context.Background(), configID); err != nil {
			s.Logger.Error("scheduled backfill failed",
				zap.String("configuration", configID), zap.Error(err))
		}
		now := time.Now()
		_ = s.Repo.Update(context.Background(), id, map[string]interface{}{"last_run": now})
	})
	if err != nil {
		s.Logger.Error("registering backfill schedule failed",
			zap.String("schedule", id), zap.Error(err))
		return
	}
	s.entries[id] = entryID
}
