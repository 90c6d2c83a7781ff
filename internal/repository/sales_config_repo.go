package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ClareAI/astra-sales-console/internal/config"
	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// GormSalesConfigRepository implements SalesConfigRepository using GORM
type GormSalesConfigRepository struct {
	db *gorm.DB
}

// NewGormSalesConfigRepository creates a new GORM sales config repository
func NewGormSalesConfigRepository(db *gorm.DB) *GormSalesConfigRepository {
	return &GormSalesConfigRepository{db: db}
}

// GetByOrganization retrieves the unique config record for an organization.
// A missing record is reported as ErrNotFound, never as a generic error.
func (r *GormSalesConfigRepository) GetByOrganization(ctx context.Context, organizationID string) (*domain.SalesAgentConfig, error) {
	var record domain.SalesAgentConfig
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND agent_type = ?", organizationID, config.AgentTypeSales).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sales config for organization %s: %w", organizationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sales config: %w", err)
	}

	return &record, nil
}

// Upsert replaces the stored document for the organization. The uniqueness
// invariant (at most one record per organization and agent type) is carried by
// the table's unique index; concurrent saves are last-write-wins.
func (r *GormSalesConfigRepository) Upsert(ctx context.Context, organizationID string, doc *config.SalesConfigData) (*domain.SalesAgentConfig, error) {
	document := &domain.SalesConfigDocument{SalesConfigData: *doc}

	var record domain.SalesAgentConfig
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND agent_type = ?", organizationID, config.AgentTypeSales).
		First(&record).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up sales config: %w", err)
		}

		record = domain.SalesAgentConfig{
			OrganizationID: organizationID,
			AgentType:      config.AgentTypeSales,
			Config:         document,
		}
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, fmt.Errorf("failed to create sales config: %w", err)
		}
		return &record, nil
	}

	updates := map[string]interface{}{
		"config":     document,
		"updated_at": time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&record).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update sales config: %w", err)
	}

	record.Config = document
	return &record, nil
}

// CountByOrganization counts config records for an organization
func (r *GormSalesConfigRepository) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.SalesAgentConfig{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sales configs: %w", err)
	}

	return int(count), nil
}
