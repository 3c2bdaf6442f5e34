package models

import (
	"encoding/json"
	"time"

	"github.com/pulse/backend/internal/domain/task"
)

// TaskModel is the persistence model for background task records.
type TaskModel struct {
	TenantAggregateModel
	Type         string `gorm:"type:varchar(30);not null;index"`
	Status       string `gorm:"type:varchar(20);not null;index"`
	Progress     int    `gorm:"not null;default:0"`
	Result       string `gorm:"type:jsonb;default:'{}'"`
	ErrorMessage string `gorm:"type:text"`
	Attempts     int    `gorm:"not null;default:0"`
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "background_tasks"
}

// ToDomain converts the persistence model to a domain BackgroundTask entity.
func (m *TaskModel) ToDomain() *task.BackgroundTask {
	t := &task.BackgroundTask{
		Type:         task.TaskType(m.Type),
		Status:       task.TaskStatus(m.Status),
		Progress:     m.Progress,
		ErrorMessage: m.ErrorMessage,
		Attempts:     m.Attempts,
		StartedAt:    m.StartedAt,
		FinishedAt:   m.FinishedAt,
	}
	if m.Result != "" {
		var result map[string]any
		if err := json.Unmarshal([]byte(m.Result), &result); err == nil {
			t.Result = result
		}
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain BackgroundTask entity.
func (m *TaskModel) FromDomain(t *task.BackgroundTask) {
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	m.Type = string(t.Type)
	m.Status = string(t.Status)
	m.Progress = t.Progress
	m.ErrorMessage = t.ErrorMessage
	m.Attempts = t.Attempts
	m.StartedAt = t.StartedAt
	m.FinishedAt = t.FinishedAt
	m.Result = "{}"
	if t.Result != nil {
		if raw, err := json.Marshal(t.Result); err == nil {
			m.Result = string(raw)
		}
	}
}
