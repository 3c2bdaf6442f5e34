package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/domain/task"
	"go.uber.org/zap"
)

// TaskDTO represents a background task in responses
type TaskDTO struct {
	ID           uuid.UUID      `json:"id"`
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	Progress     int            `json:"progress"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Attempts     int            `json:"attempts"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TaskService reads and controls background task records
type TaskService struct {
	taskRepo task.TaskRepository
	logger   *zap.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo task.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, logger: logger}
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TaskDTO, error) {
	t, err := s.taskRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find task")
	}
	dto := toTaskDTO(t)
	return &dto, nil
}

// List returns a tenant's tasks, newest first
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TaskDTO, int64, error) {
	tasks, err := s.taskRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}

	total, err := s.taskRepo.Count(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to count tasks", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list tasks")
	}

	dtos := make([]TaskDTO, len(tasks))
	for i := range tasks {
		dtos[i] = toTaskDTO(&tasks[i])
	}
	return dtos, total, nil
}

// Cancel stops a pending or running task
func (s *TaskService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*TaskDTO, error) {
	t, err := s.taskRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("TASK_NOT_FOUND", "Task not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find task")
	}

	if err := t.Cancel(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		s.logger.Error("Failed to save task", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel task")
	}

	s.logger.Info("Task cancelled", zap.String("task_id", id.String()))
	dto := toTaskDTO(t)
	return &dto, nil
}

func toTaskDTO(t *task.BackgroundTask) TaskDTO {
	return TaskDTO{
		ID:           t.ID,
		Type:         string(t.Type),
		Status:       string(t.Status),
		Progress:     t.Progress,
		Result:       t.Result,
		ErrorMessage: t.ErrorMessage,
		Attempts:     t.Attempts,
		StartedAt:    t.StartedAt,
		FinishedAt:   t.FinishedAt,
		CreatedAt:    t.CreatedAt,
	}
}
