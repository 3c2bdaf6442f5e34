// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the platform.
// It tracks metrics syncs, spend volume, and budget alert health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	syncRunsTotal     *Counter
	syncRowsTotal     *Counter
	spendSyncedTotal  *Counter
	alertsRaisedTotal *Counter

	// Gauge metrics (point-in-time values)
	activeConnectionsCount *Gauge
	openAlertsCount        *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	syncProvider SyncMetricsProvider
}

// SyncMetricsProvider provides sync and alert state for periodic metrics
// collection. The interface keeps the telemetry layer from depending on the
// connection and budget domains directly.
type SyncMetricsProvider interface {
	// GetActiveConnectionCounts returns active connection counts per platform code
	GetActiveConnectionCounts(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)

	// GetOpenAlertCount returns the number of unacknowledged pacing alerts
	GetOpenAlertCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	SyncProvider    SyncMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:        cfg.Meter,
		logger:       logger,
		stopChan:     make(chan struct{}),
		syncProvider: cfg.SyncProvider,
	}

	var err error

	bm.syncRunsTotal, err = NewCounter(
		cfg.Meter,
		"pulse_sync_runs_total",
		"Total number of account metrics sync runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	bm.syncRowsTotal, err = NewCounter(
		cfg.Meter,
		"pulse_sync_rows_total",
		"Total number of daily metric rows written by syncs",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.spendSyncedTotal, err = NewCounter(
		cfg.Meter,
		"pulse_spend_synced_total",
		"Total ad spend processed by syncs, in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	bm.alertsRaisedTotal, err = NewCounter(
		cfg.Meter,
		"pulse_budget_alerts_raised_total",
		"Total number of budget pacing alerts raised",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	bm.activeConnectionsCount, err = NewGauge(
		cfg.Meter,
		"pulse_active_connections_count",
		"Number of active platform connections",
		"{connections}",
	)
	if err != nil {
		return nil, err
	}

	bm.openAlertsCount, err = NewGauge(
		cfg.Meter,
		"pulse_open_alerts_count",
		"Number of unacknowledged budget pacing alerts",
		"{alerts}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Sync Metrics
// =============================================================================

// SyncOutcome labels the result of one account sync for metrics.
type SyncOutcome string

const (
	SyncOutcomeSuccess SyncOutcome = "success"
	SyncOutcomeSkipped SyncOutcome = "skipped"
	SyncOutcomeFailed  SyncOutcome = "failed"
)

// RecordSyncRun records one account sync run.
// This should be called from the application layer after each sync.
func (bm *BusinessMetrics) RecordSyncRun(ctx context.Context, tenantID uuid.UUID, platformCode string, outcome SyncOutcome) {
	bm.syncRunsTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPlatformCode.String(platformCode),
		AttrSyncStatus.String(string(outcome)),
	)
}

// RecordSyncRows records the number of daily metric rows a sync wrote.
func (bm *BusinessMetrics) RecordSyncRows(ctx context.Context, tenantID uuid.UUID, platformCode string, rows int64) {
	bm.syncRowsTotal.Add(ctx, rows,
		AttrTenantID.String(tenantID.String()),
		AttrPlatformCode.String(platformCode),
	)
}

// RecordSpendSynced records ad spend processed during a sync, in cents.
func (bm *BusinessMetrics) RecordSpendSynced(ctx context.Context, tenantID uuid.UUID, platformCode string, spend decimal.Decimal) {
	cents := spend.Mul(decimal.NewFromInt(100)).IntPart()
	bm.spendSyncedTotal.Add(ctx, cents,
		AttrTenantID.String(tenantID.String()),
		AttrPlatformCode.String(platformCode),
	)
}

// =============================================================================
// Budget Alert Metrics
// =============================================================================

// RecordAlertRaised records a newly raised budget pacing alert.
func (bm *BusinessMetrics) RecordAlertRaised(ctx context.Context, tenantID uuid.UUID, alertType string) {
	bm.alertsRaisedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrAlertType.String(alertType),
	)
}

// RecordActiveConnections records the current active connection count per platform.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordActiveConnections(ctx context.Context, tenantID uuid.UUID, platformCode string, count int64) {
	bm.activeConnectionsCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrPlatformCode.String(platformCode),
	)
}

// RecordOpenAlerts records the number of unacknowledged pacing alerts.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenAlerts(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.openAlertsCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectSyncMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectSyncMetrics(ctx, tenantProvider)
		}
	}
}

// collectSyncMetrics collects gauge metrics for all tenants.
func (bm *BusinessMetrics) collectSyncMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.syncProvider == nil {
		bm.logger.Debug("No sync provider configured, skipping gauge metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantSyncMetrics(ctx, tenantID)
	}
}

// collectTenantSyncMetrics collects gauge metrics for a single tenant.
func (bm *BusinessMetrics) collectTenantSyncMetrics(ctx context.Context, tenantID uuid.UUID) {
	connectionsByPlatform, err := bm.syncProvider.GetActiveConnectionCounts(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get connection counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		for platformCode, count := range connectionsByPlatform {
			bm.RecordActiveConnections(ctx, tenantID, platformCode, count)
		}
	}

	openAlerts, err := bm.syncProvider.GetOpenAlertCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get open alert count for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenAlerts(ctx, tenantID, openAlerts)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
