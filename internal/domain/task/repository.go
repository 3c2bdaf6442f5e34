package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
)

// TaskRepository defines the interface for background task persistence
type TaskRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*BackgroundTask, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BackgroundTask, error)
	FindRunning(ctx context.Context, tenantID uuid.UUID, taskType TaskType) ([]BackgroundTask, error)
	Save(ctx context.Context, task *BackgroundTask) error
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
