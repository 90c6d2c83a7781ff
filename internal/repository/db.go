package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ClareAI/astra-sales-console/internal/config"
	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// ErrNotFound is the storage layer's explicit not-found signal. Callers check
// it with errors.Is; a missing configuration record is a normal first-time
// branch, not a failure, and must be distinguishable from connectivity or
// permission errors.
var ErrNotFound = errors.New("record not found")

// SalesConfigRepository defines the interface for sales config records
type SalesConfigRepository interface {
	// GetByOrganization returns the unique record for (organizationID,
	// "sales"), or ErrNotFound when no record exists yet.
	GetByOrganization(ctx context.Context, organizationID string) (*domain.SalesAgentConfig, error)

	// Upsert replaces the whole document for the organization: update in
	// place when a record exists, insert otherwise. Returns the persisted
	// record including server-assigned id and timestamps.
	Upsert(ctx context.Context, organizationID string, doc *config.SalesConfigData) (*domain.SalesAgentConfig, error)

	// CountByOrganization counts records for the organization, any agent type.
	CountByOrganization(ctx context.Context, organizationID string) (int, error)
}

// DiscoveryCallRepository defines the interface for discovery call records
type DiscoveryCallRepository interface {
	Create(ctx context.Context, organizationID string, req *domain.CreateDiscoveryCallRequest) (*domain.DiscoveryCall, error)
	GetByID(ctx context.Context, id string) (*domain.DiscoveryCall, error)
	ListByOrganization(ctx context.Context, organizationID string, filter *domain.ListDiscoveryCallsFilter) ([]*domain.DiscoveryCall, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.DiscoveryCall, error)
}

// RepositoryManager combines all repositories
type RepositoryManager interface {
	SalesConfig() SalesConfigRepository
	DiscoveryCall() DiscoveryCallRepository

	// Health check
	Ping(ctx context.Context) error

	// Close connection
	Close() error
}

// GormRepositoryManager implements RepositoryManager using GORM
type GormRepositoryManager struct {
	db                *gorm.DB
	salesConfigRepo   *GormSalesConfigRepository
	discoveryCallRepo *GormDiscoveryCallRepository
}

// NewGormRepositoryManager creates a new GORM repository manager
func NewGormRepositoryManager(db *gorm.DB) *GormRepositoryManager {
	return &GormRepositoryManager{
		db:                db,
		salesConfigRepo:   NewGormSalesConfigRepository(db),
		discoveryCallRepo: NewGormDiscoveryCallRepository(db),
	}
}

// SalesConfig returns the sales config repository
func (m *GormRepositoryManager) SalesConfig() SalesConfigRepository {
	return m.salesConfigRepo
}

// DiscoveryCall returns the discovery call repository
func (m *GormRepositoryManager) DiscoveryCall() DiscoveryCallRepository {
	return m.discoveryCallRepo
}

// Ping checks the database connection
func (m *GormRepositoryManager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (m *GormRepositoryManager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
