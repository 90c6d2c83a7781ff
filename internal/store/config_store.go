package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ClareAI/astra-sales-console/internal/config"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
	"github.com/ClareAI/astra-sales-console/pkg/redis"
)

// DefaultCacheTTL bounds how long a materialized document may be served from
// redis before the database is consulted again.
const DefaultCacheTTL = 5 * time.Minute

// ErrInvalidConfig marks a save rejected by document validation, before any
// storage call was made.
var ErrInvalidConfig = errors.New("invalid sales config")

// State is a snapshot of the store's observable flags. Flag transitions are
// atomic per call: observers never see a partially applied update.
type State struct {
	IsLoading bool
	IsSaving  bool
	LastError string
}

// ConfigStore loads and saves sales agent configuration documents. It is an
// explicitly constructed, dependency-injected service: one instance per
// process, no ambient globals.
//
// Fetch never fails on a missing record; it materializes the built-in default
// document instead. The store holds the last good document per organization,
// readable through Current; a failed save leaves it untouched so the operator
// can keep editing against known-good state.
type ConfigStore struct {
	repo     repository.SalesConfigRepository
	cache    redis.RedisServiceInterface // optional, may be nil
	cacheTTL time.Duration

	mu      sync.Mutex
	configs map[string]*config.SalesConfigData // organization id -> materialized document
	state   State
}

// NewConfigStore creates a config store. cache may be nil to disable the
// redis layer.
func NewConfigStore(repo repository.SalesConfigRepository, cache redis.RedisServiceInterface) *ConfigStore {
	return &ConfigStore{
		repo:     repo,
		cache:    cache,
		cacheTTL: DefaultCacheTTL,
		configs:  make(map[string]*config.SalesConfigData),
	}
}

// State returns the current flag snapshot.
func (s *ConfigStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClearError clears the last error. Errors otherwise stay in place until
// superseded by a new attempt.
func (s *ConfigStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastError = ""
}

// Current returns a copy of the document most recently fetched or saved for
// the organization, or nil when the store holds none yet. A failed fetch or
// save never changes what Current returns.
func (s *ConfigStore) Current(organizationID string) *config.SalesConfigData {
	s.mu.Lock()
	doc := s.configs[organizationID]
	s.mu.Unlock()

	if doc == nil {
		return nil
	}
	return config.Materialize(doc)
}

// Fetch returns the materialized configuration for an organization. A missing
// record is a normal first-time branch and yields the default document, not an
// error. Any other lookup failure is surfaced and recorded in LastError.
func (s *ConfigStore) Fetch(ctx context.Context, organizationID string) (*config.SalesConfigData, error) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.LastError = ""
	s.mu.Unlock()

	doc, err := s.fetchDocument(ctx, organizationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	if err != nil {
		s.state.LastError = err.Error()
		return nil, err
	}
	s.configs[organizationID] = doc
	return config.Materialize(doc), nil // returns a fresh copy
}

func (s *ConfigStore) fetchDocument(ctx context.Context, organizationID string) (*config.SalesConfigData, error) {
	if cached := s.cacheGet(ctx, organizationID); cached != nil {
		return cached, nil
	}

	record, err := s.repo.GetByOrganization(ctx, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// First-time setup: present defaults, do not cache them.
			return config.Materialize(nil), nil
		}
		return nil, fmt.Errorf("failed to fetch sales config: %w", err)
	}

	var stored *config.SalesConfigData
	if record.Config != nil {
		stored = &record.Config.SalesConfigData
	}
	doc := config.Materialize(stored)
	s.cacheSet(ctx, organizationID, doc)
	return doc, nil
}

// Save validates and persists a full document for the organization. The whole
// document is replaced atomically; concurrent saves race with last-write-wins
// semantics at the storage layer. On failure the document held for Current is
// untouched and the error is recorded in LastError, leaving retry to the
// caller.
func (s *ConfigStore) Save(ctx context.Context, organizationID string, draft *config.SalesConfigData) (*config.SalesConfigData, error) {
	s.mu.Lock()
	s.state.IsSaving = true
	s.state.LastError = ""
	s.mu.Unlock()

	doc, err := s.saveDocument(ctx, organizationID, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsSaving = false
	if err != nil {
		s.state.LastError = err.Error()
		return nil, err
	}
	s.configs[organizationID] = doc
	return config.Materialize(doc), nil
}

func (s *ConfigStore) saveDocument(ctx context.Context, organizationID string, draft *config.SalesConfigData) (*config.SalesConfigData, error) {
	doc := config.Materialize(draft)
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Invalidate before writing so a failed upsert cannot leave a stale
	// cached document behind.
	s.cacheDel(ctx, organizationID)

	record, err := s.repo.Upsert(ctx, organizationID, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to save sales config: %w", err)
	}

	persisted := doc
	if record.Config != nil {
		persisted = config.Materialize(&record.Config.SalesConfigData)
	}
	s.cacheSet(ctx, organizationID, persisted)

	logger.Base().Info("sales config saved",
		zap.String("organization_id", organizationID),
		zap.String("record_id", record.ID))
	return persisted, nil
}

func (s *ConfigStore) cacheDel(ctx context.Context, organizationID string) {
	if s.cache == nil {
		return
	}

	key := s.cache.GenerateKey(redis.SALES_CONFIG, organizationID)
	if err := s.cache.DelValue(ctx, key); err != nil {
		logger.Base().Warn("sales config cache invalidation failed", zap.Error(err))
	}
}

func (s *ConfigStore) cacheGet(ctx context.Context, organizationID string) *config.SalesConfigData {
	if s.cache == nil {
		return nil
	}

	key := s.cache.GenerateKey(redis.SALES_CONFIG, organizationID)
	val, err := s.cache.GetValue(ctx, key)
	if err != nil {
		if !errors.Is(err, redis.ErrKeyNotExist) {
			logger.Base().Warn("sales config cache read failed", zap.Error(err))
		}
		return nil
	}

	var doc config.SalesConfigData
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		logger.Base().Warn("sales config cache entry malformed", zap.Error(err))
		return nil
	}
	return &doc
}

func (s *ConfigStore) cacheSet(ctx context.Context, organizationID string, doc *config.SalesConfigData) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Base().Warn("failed to marshal sales config for cache", zap.Error(err))
		return
	}

	key := s.cache.GenerateKey(redis.SALES_CONFIG, organizationID)
	if err := s.cache.SetValue(ctx, key, string(data), s.cacheTTL); err != nil {
		logger.Base().Warn("sales config cache write failed", zap.Error(err))
	}
}
