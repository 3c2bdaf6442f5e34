package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pulse/backend/internal/application/ads"
	appbudget "github.com/pulse/backend/internal/application/budget"
	"github.com/pulse/backend/internal/domain/task"
)

// SyncExecutor executes scheduled jobs against the application services and
// records a BackgroundTask row per run so the API can report outcomes.
type SyncExecutor struct {
	syncService   *ads.SyncService
	pacingService *appbudget.PacingService
	taskRepo      task.TaskRepository
	logger        *zap.Logger
}

// NewSyncExecutor creates a new sync executor
func NewSyncExecutor(
	syncService *ads.SyncService,
	pacingService *appbudget.PacingService,
	taskRepo task.TaskRepository,
	logger *zap.Logger,
) *SyncExecutor {
	return &SyncExecutor{
		syncService:   syncService,
		pacingService: pacingService,
		taskRepo:      taskRepo,
		logger:        logger,
	}
}

// Execute dispatches a job to the matching application service
func (e *SyncExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeMetricsSync:
		return e.executeMetricsSync(ctx, job)
	case JobTypeBudgetSnapshot:
		return e.executeBudgetSnapshot(ctx, job)
	default:
		return ErrUnknownJobType
	}
}

func (e *SyncExecutor) executeMetricsSync(ctx context.Context, job *Job) error {
	if job.TenantID == nil {
		return ErrInvalidConfig
	}
	tenantID := *job.TenantID

	record := task.NewBackgroundTask(tenantID, task.TypeMetricsSync)
	if err := record.Start(); err != nil {
		return err
	}
	if err := e.taskRepo.Save(ctx, record); err != nil {
		e.logger.Error("Failed to create task record",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}

	started := time.Now()
	results, err := e.syncService.SyncTenant(ctx, tenantID, job.Force)
	if err != nil {
		e.failTask(ctx, record, err)
		return err
	}

	var campaigns, dailyRows, skipped, failed int
	for _, r := range results {
		campaigns += r.Campaigns
		dailyRows += r.DailyRows
		if r.Skipped {
			skipped++
		}
		if r.Error != "" {
			failed++
		}
	}

	e.completeTask(ctx, record, map[string]any{
		"accounts":   len(results),
		"campaigns":  campaigns,
		"daily_rows": dailyRows,
		"skipped":    skipped,
		"failed":     failed,
	})

	e.logger.Info("Tenant metrics sync finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("accounts", len(results)),
		zap.Int("campaigns", campaigns),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(started)),
	)
	return nil
}

func (e *SyncExecutor) executeBudgetSnapshot(ctx context.Context, job *Job) error {
	started := time.Now()
	evaluated, err := e.pacingService.EvaluateAll(ctx, time.Now())
	if err != nil {
		return err
	}

	e.logger.Info("Budget pacing evaluation finished",
		zap.Int("budgets_evaluated", evaluated),
		zap.Duration("duration", time.Since(started)),
	)
	return nil
}

func (e *SyncExecutor) completeTask(ctx context.Context, record *task.BackgroundTask, result map[string]any) {
	if err := record.Complete(result); err != nil {
		e.logger.Error("Failed to complete task record", zap.Error(err))
		return
	}
	if err := e.taskRepo.Save(ctx, record); err != nil {
		e.logger.Error("Failed to save task record",
			zap.String("task_id", record.ID.String()),
			zap.Error(err),
		)
	}
}

func (e *SyncExecutor) failTask(ctx context.Context, record *task.BackgroundTask, cause error) {
	if err := record.Fail(cause.Error()); err != nil {
		e.logger.Error("Failed to fail task record", zap.Error(err))
		return
	}
	if err := e.taskRepo.Save(ctx, record); err != nil {
		e.logger.Error("Failed to save task record",
			zap.String("task_id", record.ID.String()),
			zap.Error(err),
		)
	}
}

// Ensure SyncExecutor implements JobExecutor
var _ JobExecutor = (*SyncExecutor)(nil)
