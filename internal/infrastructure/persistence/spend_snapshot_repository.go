package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/budget"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSpendSnapshotRepository implements budget.SnapshotRepository using GORM
type GormSpendSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSpendSnapshotRepository creates a new GormSpendSnapshotRepository
func NewGormSpendSnapshotRepository(db *gorm.DB) *GormSpendSnapshotRepository {
	return &GormSpendSnapshotRepository{db: db}
}

// Find finds the snapshot for a budget and date
func (r *GormSpendSnapshotRepository) Find(ctx context.Context, tenantID, budgetID uuid.UUID, date time.Time) (*budget.SpendSnapshot, error) {
	var model models.SpendSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND budget_id = ? AND date = ?", tenantID, budgetID, dateOnly(date)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBudget finds snapshots for a budget within [from, to]
func (r *GormSpendSnapshotRepository) FindByBudget(ctx context.Context, tenantID, budgetID uuid.UUID, from, to time.Time) ([]budget.SpendSnapshot, error) {
	var snapshotModels []models.SpendSnapshotModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND budget_id = ? AND date >= ? AND date <= ?",
			tenantID, budgetID, dateOnly(from), dateOnly(to)).
		Order("date ASC").
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}
	snapshots := make([]budget.SpendSnapshot, len(snapshotModels))
	for i, model := range snapshotModels {
		snapshots[i] = *model.ToDomain()
	}
	return snapshots, nil
}

// Save creates or updates a snapshot
func (r *GormSpendSnapshotRepository) Save(ctx context.Context, snapshot *budget.SpendSnapshot) error {
	model := &models.SpendSnapshotModel{}
	model.FromDomain(snapshot)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSpendSnapshotRepository implements budget.SnapshotRepository
var _ budget.SnapshotRepository = (*GormSpendSnapshotRepository)(nil)
