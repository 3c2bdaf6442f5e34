package scheduler

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider provides a list of tenants for scheduling
type TenantProvider interface {
	GetAllActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// MetricsSyncHour/Minute is the daily time to pull platform metrics (24h clock)
	MetricsSyncHour   int
	MetricsSyncMinute int

	// BudgetSnapshotHour/Minute is the daily time to evaluate budget pacing.
	// It runs after the metrics sync so snapshots see fresh spend.
	BudgetSnapshotHour   int
	BudgetSnapshotMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		MetricsSyncHour:      3,
		MetricsSyncMinute:    0,
		BudgetSnapshotHour:   4,
		BudgetSnapshotMinute: 30,
		CheckInterval:        time.Minute,
	}
}

// CronTrigger fires the nightly metrics sync and budget snapshot jobs
type CronTrigger struct {
	config         CronTriggerConfig
	scheduler      *Scheduler
	tenantProvider TenantProvider
	logger         *zap.Logger

	cancel       context.CancelFunc
	wg           sync.WaitGroup
	mu           sync.Mutex
	isRunning    bool
	lastSyncDate string // date the metrics sync last fired
	lastSnapDate string // date the budget snapshot last fired
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	tenantProvider TenantProvider,
	logger *zap.Logger,
) *CronTrigger {
	return &CronTrigger{
		config:         config,
		scheduler:      scheduler,
		tenantProvider: tenantProvider,
		logger:         logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Int("metrics_sync_hour", c.config.MetricsSyncHour),
		zap.Int("metrics_sync_minute", c.config.MetricsSyncMinute),
		zap.Int("budget_snapshot_hour", c.config.BudgetSnapshotHour),
		zap.Int("budget_snapshot_minute", c.config.BudgetSnapshotMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run scheduled work
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires each daily job at most once per calendar date
func (c *CronTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	syncDue := c.lastSyncDate != currentDate &&
		now.Hour() == c.config.MetricsSyncHour && now.Minute() == c.config.MetricsSyncMinute
	snapDue := c.lastSnapDate != currentDate &&
		now.Hour() == c.config.BudgetSnapshotHour && now.Minute() == c.config.BudgetSnapshotMinute
	if syncDue {
		c.lastSyncDate = currentDate
	}
	if snapDue {
		c.lastSnapDate = currentDate
	}
	c.mu.Unlock()

	if syncDue {
		c.logger.Info("Triggering nightly metrics sync")
		c.triggerMetricsSync(ctx)
	}
	if snapDue {
		c.logger.Info("Triggering daily budget snapshots")
		if err := c.scheduler.ScheduleBudgetSnapshots(); err != nil {
			c.logger.Error("Failed to schedule budget snapshots", zap.Error(err))
		}
	}
}

// triggerMetricsSync schedules a sync job for every active tenant
func (c *CronTrigger) triggerMetricsSync(ctx context.Context) {
	tenantIDs, err := c.tenantProvider.GetAllActiveTenantIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to get tenant IDs for metrics sync", zap.Error(err))
		return
	}

	c.logger.Info("Scheduling metrics sync for tenants",
		zap.Int("tenant_count", len(tenantIDs)),
	)

	for _, tenantID := range tenantIDs {
		if err := c.scheduler.ScheduleMetricsSync(tenantID, false); err != nil {
			c.logger.Error("Failed to schedule metrics sync for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
}

// TriggerManualSync allows on-demand scheduling for one tenant
func (c *CronTrigger) TriggerManualSync(tenantID uuid.UUID, force bool) error {
	return c.scheduler.ScheduleMetricsSync(tenantID, force)
}

// ParseDailyCron extracts hour and minute from a "M H * * *" cron spec.
// Only daily specs are supported; anything else returns ErrInvalidConfig.
func ParseDailyCron(spec string) (hour, minute int, err error) {
	fields := strings.Fields(spec)
	if len(fields) != 5 || fields[2] != "*" || fields[3] != "*" || fields[4] != "*" {
		return 0, 0, ErrInvalidConfig
	}
	minute, err = strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, ErrInvalidConfig
	}
	hour, err = strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidConfig
	}
	return hour, minute, nil
}
