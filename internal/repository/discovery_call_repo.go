package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// GormDiscoveryCallRepository implements DiscoveryCallRepository using GORM
type GormDiscoveryCallRepository struct {
	db *gorm.DB
}

// NewGormDiscoveryCallRepository creates a new GORM discovery call repository
func NewGormDiscoveryCallRepository(db *gorm.DB) *GormDiscoveryCallRepository {
	return &GormDiscoveryCallRepository{db: db}
}

// Create creates a new discovery call record
func (r *GormDiscoveryCallRepository) Create(ctx context.Context, organizationID string, req *domain.CreateDiscoveryCallRequest) (*domain.DiscoveryCall, error) {
	call := &domain.DiscoveryCall{
		OrganizationID: organizationID,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		CallType:       req.CallType,
		Status:         domain.DiscoveryCallStatusScheduled,
		ScheduledAt:    req.ScheduledAt,
		Notes:          req.Notes,
	}

	if err := r.db.WithContext(ctx).Create(call).Error; err != nil {
		return nil, fmt.Errorf("failed to create discovery call: %w", err)
	}

	return call, nil
}

// GetByID retrieves a discovery call by ID
func (r *GormDiscoveryCallRepository) GetByID(ctx context.Context, id string) (*domain.DiscoveryCall, error) {
	var call domain.DiscoveryCall
	if err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("discovery call %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get discovery call: %w", err)
	}

	return &call, nil
}

// ListByOrganization lists discovery calls for an organization, newest first,
// optionally narrowed by status and scheduled_at range.
func (r *GormDiscoveryCallRepository) ListByOrganization(ctx context.Context, organizationID string, filter *domain.ListDiscoveryCallsFilter) ([]*domain.DiscoveryCall, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.ScheduledFrom != nil {
			query = query.Where("scheduled_at >= ?", *filter.ScheduledFrom)
		}
		if filter.ScheduledTo != nil {
			query = query.Where("scheduled_at <= ?", *filter.ScheduledTo)
		}
	}

	var calls []*domain.DiscoveryCall
	if err := query.Order("scheduled_at DESC").Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("failed to list discovery calls: %w", err)
	}

	return calls, nil
}

// UpdateStatus updates the status of a discovery call
func (r *GormDiscoveryCallRepository) UpdateStatus(ctx context.Context, id string, status string) (*domain.DiscoveryCall, error) {
	if !domain.ValidDiscoveryCallStatus(status) {
		return nil, fmt.Errorf("unknown discovery call status: %s", status)
	}

	var call domain.DiscoveryCall
	if err := r.db.WithContext(ctx).First(&call, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("discovery call %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find discovery call: %w", err)
	}

	if err := r.db.WithContext(ctx).Model(&call).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update discovery call status: %w", err)
	}

	call.Status = status
	return &call, nil
}
