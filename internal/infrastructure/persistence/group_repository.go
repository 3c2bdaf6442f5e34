package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulse/backend/internal/domain/portfolio"
	"github.com/pulse/backend/internal/domain/shared"
	"github.com/pulse/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormGroupRepository implements GroupRepository using GORM.
// Group membership rows live in client_group_members and are reconciled
// against the domain ClientIDs slice on every save.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a group by ID within a tenant
func (r *GormGroupRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*portfolio.ClientGroup, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	group := model.ToDomain()
	if err := r.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// FindAll finds all groups for a tenant matching the filter
func (r *GormGroupRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]portfolio.ClientGroup, error) {
	var groupModels []models.GroupModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.GroupModel{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&groupModels).Error; err != nil {
		return nil, err
	}

	groups := make([]portfolio.ClientGroup, len(groupModels))
	for i, model := range groupModels {
		group := model.ToDomain()
		if err := r.loadMembers(ctx, group); err != nil {
			return nil, err
		}
		groups[i] = *group
	}
	return groups, nil
}

// FindByCategory finds the auto-generated group for a category value
func (r *GormGroupRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category portfolio.GroupCategory, value string) (*portfolio.ClientGroup, error) {
	var model models.GroupModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND category_type = ? AND category_value = ?", tenantID, category, value).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	group := model.ToDomain()
	if err := r.loadMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Save creates or updates a group along with its member rows
func (r *GormGroupRepository) Save(ctx context.Context, group *portfolio.ClientGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.GroupModelFromDomain(group)
		if err := tx.Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", group.ID).
			Delete(&models.GroupMemberModel{}).Error; err != nil {
			return err
		}
		if len(group.ClientIDs) == 0 {
			return nil
		}

		members := make([]models.GroupMemberModel, len(group.ClientIDs))
		for i, clientID := range group.ClientIDs {
			members[i] = models.GroupMemberModel{
				GroupID:   group.ID,
				ClientID:  clientID,
				TenantID:  group.TenantID,
				CreatedAt: time.Now().UTC(),
			}
		}
		return tx.Create(&members).Error
	})
}

// Delete deletes a group and its member rows
func (r *GormGroupRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).
			Delete(&models.GroupMemberModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.GroupModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts groups for a tenant matching the filter
func (r *GormGroupRepository) Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.GroupModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormGroupRepository) loadMembers(ctx context.Context, group *portfolio.ClientGroup) error {
	var memberModels []models.GroupMemberModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", group.ID).
		Order("created_at ASC").
		Find(&memberModels).Error; err != nil {
		return err
	}
	clientIDs := make([]uuid.UUID, len(memberModels))
	for i, member := range memberModels {
		clientIDs[i] = member.ClientID
	}
	group.ClientIDs = clientIDs
	return nil
}

// applyFilter applies filter options to the query
func (r *GormGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_auto_generated":
			query = query.Where("is_auto_generated = ?", value)
		case "category_type":
			query = query.Where("category_type = ?", value)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, GroupSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		sortOrder = "ASC"
	}
	query = query.Order(sortField + " " + sortOrder)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormGroupRepository implements GroupRepository
var _ portfolio.GroupRepository = (*GormGroupRepository)(nil)
