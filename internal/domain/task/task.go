package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// TaskType identifies what kind of background work a task tracks
type TaskType string

const (
	TypeMetricsSync    TaskType = "metrics_sync"
	TypeAccountSync    TaskType = "account_sync"
	TypeBudgetSnapshot TaskType = "budget_snapshot"
	TypeTokenRefresh   TaskType = "token_refresh"
)

// TaskStatus is the lifecycle state of a background task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
	StatusCancelled TaskStatus = "cancelled"
)

// BackgroundTask records one execution of scheduled or user-triggered work so
// the API can report progress and outcomes.
type BackgroundTask struct {
	shared.TenantAggregateRoot
	Type         TaskType
	Status       TaskStatus
	Progress     int // 0-100
	Result       map[string]any
	ErrorMessage string
	Attempts     int
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// NewBackgroundTask creates a pending task
func NewBackgroundTask(tenantID uuid.UUID, taskType TaskType) *BackgroundTask {
	return &BackgroundTask{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                taskType,
		Status:              StatusPending,
	}
}

// Start moves the task to running and counts the attempt
func (t *BackgroundTask) Start() error {
	if t.Status != StatusPending && t.Status != StatusFailed {
		return shared.NewDomainError("INVALID_TASK_STATE", "Task cannot start from status "+string(t.Status))
	}
	now := time.Now()
	t.Status = StatusRunning
	t.StartedAt = &now
	t.FinishedAt = nil
	t.ErrorMessage = ""
	t.Attempts++
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// SetProgress updates the completion percentage, clamped to [0, 100]
func (t *BackgroundTask) SetProgress(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	t.Progress = pct
	t.UpdatedAt = time.Now()
}

// Complete marks the task finished with a result payload
func (t *BackgroundTask) Complete(result map[string]any) error {
	if t.Status != StatusRunning {
		return shared.NewDomainError("INVALID_TASK_STATE", "Only a running task can complete")
	}
	now := time.Now()
	t.Status = StatusCompleted
	t.Progress = 100
	t.Result = result
	t.FinishedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Fail marks the task failed with an error message
func (t *BackgroundTask) Fail(message string) error {
	if t.Status != StatusRunning {
		return shared.NewDomainError("INVALID_TASK_STATE", "Only a running task can fail")
	}
	now := time.Now()
	t.Status = StatusFailed
	t.ErrorMessage = message
	t.FinishedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Cancel stops a pending or running task
func (t *BackgroundTask) Cancel() error {
	if t.Status != StatusPending && t.Status != StatusRunning {
		return shared.NewDomainError("INVALID_TASK_STATE", "Task is already finished")
	}
	now := time.Now()
	t.Status = StatusCancelled
	t.FinishedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// CanRetry reports whether a failed task may run again under the attempt cap
func (t *BackgroundTask) CanRetry(maxAttempts int) bool {
	return t.Status == StatusFailed && t.Attempts < maxAttempts
}

// IsTerminal reports whether the task reached a final state
func (t *BackgroundTask) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Duration returns the wall time of the last run, zero while unfinished
func (t *BackgroundTask) Duration() time.Duration {
	if t.StartedAt == nil || t.FinishedAt == nil {
		return 0
	}
	return t.FinishedAt.Sub(*t.StartedAt)
}
