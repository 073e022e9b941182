package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driving"
	"github.com/custodia-labs/pricewatch/internal/logger"
)

// resultHistoryKeep bounds stored task results per task.
const resultHistoryKeep = 100

// Scheduler runs the ingest task on a fixed interval with persisted
// task state, so last/next run survive restarts.
type Scheduler struct {
	config   domain.SchedulerConfig
	store    driven.SchedulerStore
	ingestor driving.IngestOrchestrator

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	ingestor driving.IngestOrchestrator,
) *Scheduler {
	return &Scheduler{
		config:   config,
		store:    store,
		ingestor: ingestor,
	}
}

// Start begins the scheduler loop. Blocks until Stop is called or ctx
// is cancelled. With RunOnStartup set, an ingest cycle runs before the
// first interval elapses.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.ensureTask(ctx); err != nil {
		logger.Warn("scheduler: failed to initialise task: %v", err)
	}

	if s.config.RunOnStartup {
		s.runIngest(ctx)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler, waiting for a running
// ingest cycle to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// ensureTask creates or updates the ingest task in the store.
func (s *Scheduler) ensureTask(ctx context.Context) error {
	task, err := s.store.GetTask(ctx, domain.TaskIDPriceIngest)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       domain.TaskIDPriceIngest,
			Name:     "Price Ingest",
			Interval: s.config.Interval,
			Enabled:  s.config.Enabled,
			NextRun:  time.Now().Add(s.config.Interval),
		}
	} else {
		if task.Interval != s.config.Interval {
			task.Interval = s.config.Interval
			task.NextRun = time.Now().Add(s.config.Interval)
		}
		task.Enabled = s.config.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop. Due tasks are checked once a minute;
// the ingest interval is hourly-scale, so finer ticks buy nothing.
func (s *Scheduler) run(ctx context.Context) error {
	s.checkAndRunDue(ctx)

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDue(ctx)
		}
	}
}

// checkAndRunDue runs the ingest task if its next-run time has passed.
func (s *Scheduler) checkAndRunDue(ctx context.Context) {
	task, err := s.store.GetTask(ctx, domain.TaskIDPriceIngest)
	if err != nil {
		logger.Warn("scheduler: failed to load task: %v", err)
		return
	}
	if task == nil || !task.Enabled {
		return
	}

	now := time.Now()
	if task.NextRun.IsZero() || !task.NextRun.After(now) {
		s.runIngest(ctx)
	}
}

// runIngest executes one ingest cycle and records the result.
func (s *Scheduler) runIngest(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	result := &domain.TaskResult{
		TaskID:    domain.TaskIDPriceIngest,
		StartedAt: time.Now(),
	}

	err := s.ingestor.RunAll(ctx)
	if errors.Is(err, domain.ErrIngestInProgress) {
		// A manual run is in flight; skip this tick rather than queue.
		logger.Info("scheduler: ingest already running, skipping tick")
		return
	}

	status := s.ingestor.Status()
	result.EndedAt = time.Now()
	result.ItemsProcessed = status.Observations
	if err != nil {
		result.Success = false
		result.Error = err.Error()
	} else {
		result.Success = true
	}

	s.saveOutcome(ctx, result)
}

// saveOutcome persists task state and the run result.
func (s *Scheduler) saveOutcome(ctx context.Context, result *domain.TaskResult) {
	task, err := s.store.GetTask(ctx, domain.TaskIDPriceIngest)
	if err != nil || task == nil {
		logger.Warn("scheduler: failed to reload task: %v", err)
		return
	}

	task.LastRun = result.StartedAt
	task.NextRun = result.EndedAt.Add(task.Interval)
	if result.Success {
		task.LastError = ""
		task.LastSuccess = result.EndedAt
	} else {
		task.LastError = result.Error
	}

	if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
		logger.Warn("scheduler: failed to save task: %v", saveErr)
	}
	if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
		logger.Warn("scheduler: failed to record result: %v", recordErr)
	}
	if pruneErr := s.store.PruneHistory(ctx, resultHistoryKeep); pruneErr != nil {
		logger.Warn("scheduler: failed to prune history: %v", pruneErr)
	}
}
