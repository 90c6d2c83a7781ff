package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClareAI/astra-sales-console/internal/config"
	"github.com/ClareAI/astra-sales-console/internal/domain"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/pkg/redis"
)

// fakeSalesConfigRepo is an in-memory SalesConfigRepository.
type fakeSalesConfigRepo struct {
	records map[string]*domain.SalesAgentConfig

	getErr    error
	upsertErr error

	getCalls    int
	upsertCalls int
}

func newFakeRepo() *fakeSalesConfigRepo {
	return &fakeSalesConfigRepo{records: make(map[string]*domain.SalesAgentConfig)}
}

func (f *fakeSalesConfigRepo) GetByOrganization(ctx context.Context, organizationID string) (*domain.SalesAgentConfig, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	record, ok := f.records[organizationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return record, nil
}

func (f *fakeSalesConfigRepo) Upsert(ctx context.Context, organizationID string, doc *config.SalesConfigData) (*domain.SalesAgentConfig, error) {
	f.upsertCalls++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	record := &domain.SalesAgentConfig{
		ID:             "rec-" + organizationID,
		OrganizationID: organizationID,
		AgentType:      config.AgentTypeSales,
		Config:         &domain.SalesConfigDocument{SalesConfigData: *doc},
	}
	f.records[organizationID] = record
	return record, nil
}

func (f *fakeSalesConfigRepo) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	if _, ok := f.records[organizationID]; ok {
		return 1, nil
	}
	return 0, nil
}

// fakeCache is an in-memory RedisServiceInterface recording call order.
type fakeCache struct {
	values map[string]string
	ops    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) GenerateKey(keyType redis.KeyType, identifier string) string {
	return string(keyType) + ":" + identifier + ":"
}

func (f *fakeCache) GetValue(ctx context.Context, key string) (string, error) {
	f.ops = append(f.ops, "get")
	val, ok := f.values[key]
	if !ok {
		return "", redis.ErrKeyNotExist
	}
	return val, nil
}

func (f *fakeCache) SetValue(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.ops = append(f.ops, "set")
	f.values[key] = value
	return nil
}

func (f *fakeCache) DelValue(ctx context.Context, key string) error {
	f.ops = append(f.ops, "del")
	delete(f.values, key)
	return nil
}

func TestFetch_FirstTimeOrganizationGetsDefaults(t *testing.T) {
	repo := newFakeRepo()
	s := NewConfigStore(repo, nil)

	doc, err := s.Fetch(context.Background(), "org-1")
	require.NoError(t, err)
	require.NotNil(t, doc)

	// Missing record is a normal branch, not an error.
	assert.Equal(t, config.LanguageRU, doc.PrimaryLanguage)
	assert.Empty(t, s.State().LastError)
	assert.False(t, s.State().IsLoading)
}

func TestFetch_MaterializesSparseStoredDocument(t *testing.T) {
	repo := newFakeRepo()
	repo.records["org-1"] = &domain.SalesAgentConfig{
		OrganizationID: "org-1",
		AgentType:      config.AgentTypeSales,
		Config: &domain.SalesConfigDocument{
			SalesConfigData: config.SalesConfigData{CompanyName: "Acme"},
		},
	}
	s := NewConfigStore(repo, nil)

	doc, err := s.Fetch(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.CompanyName)
	require.NotNil(t, doc.CTASettings)
	assert.Equal(t, config.DefaultMaxIterationsBeforeCTA, doc.CTASettings.MaxIterationsBeforeCTA)
}

func TestFetch_TransportErrorSurfaced(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("connection refused")
	s := NewConfigStore(repo, nil)

	_, err := s.Fetch(context.Background(), "org-1")
	require.Error(t, err)
	assert.Contains(t, s.State().LastError, "connection refused")
	assert.False(t, s.State().IsLoading)
}

func TestSave_PersistsMaterializedDocument(t *testing.T) {
	repo := newFakeRepo()
	s := NewConfigStore(repo, nil)

	draft := &config.SalesConfigData{CompanyName: "Acme"}
	doc, err := s.Save(context.Background(), "org-1", draft)
	require.NoError(t, err)

	// The persisted document is total even though the draft was sparse.
	require.NotNil(t, doc.ScoringCriteria)
	assert.Equal(t, 1, repo.upsertCalls)
	stored := repo.records["org-1"]
	require.NotNil(t, stored)
	assert.Equal(t, "Acme", stored.Config.CompanyName)
}

func TestSave_ValidationFailureNeverReachesStorage(t *testing.T) {
	repo := newFakeRepo()
	s := NewConfigStore(repo, nil)

	draft := config.Materialize(nil)
	draft.PrimaryLanguage = "de"

	_, err := s.Save(context.Background(), "org-1", draft)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 0, repo.upsertCalls)
}

func TestSave_FailureKeepsHeldDocument(t *testing.T) {
	repo := newFakeRepo()
	s := NewConfigStore(repo, nil)

	first := &config.SalesConfigData{CompanyName: "Acme"}
	_, err := s.Save(context.Background(), "org-1", first)
	require.NoError(t, err)

	repo.upsertErr = errors.New("disk full")
	second := &config.SalesConfigData{CompanyName: "NewCo"}
	_, err = s.Save(context.Background(), "org-1", second)
	require.Error(t, err)
	assert.Contains(t, s.State().LastError, "disk full")
	assert.False(t, s.State().IsSaving)

	// The previously persisted document survives the failed save.
	doc, err := s.Fetch(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.CompanyName)
}

func TestCurrent_TracksLastGoodDocument(t *testing.T) {
	repo := newFakeRepo()
	s := NewConfigStore(repo, nil)

	// Nothing held before the first fetch or save.
	assert.Nil(t, s.Current("org-1"))

	_, err := s.Save(context.Background(), "org-1", &config.SalesConfigData{CompanyName: "Acme"})
	require.NoError(t, err)

	held := s.Current("org-1")
	require.NotNil(t, held)
	assert.Equal(t, "Acme", held.CompanyName)

	// A failed save leaves the held document untouched.
	repo.upsertErr = errors.New("disk full")
	_, err = s.Save(context.Background(), "org-1", &config.SalesConfigData{CompanyName: "NewCo"})
	require.Error(t, err)
	held = s.Current("org-1")
	require.NotNil(t, held)
	assert.Equal(t, "Acme", held.CompanyName)

	// Current hands out copies; mutating one never reaches the store.
	held.CompanyName = "Mutated"
	assert.Equal(t, "Acme", s.Current("org-1").CompanyName)
}

func TestSave_InvalidatesCacheBeforeWriting(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	s := NewConfigStore(repo, cache)

	_, err := s.Save(context.Background(), "org-1", &config.SalesConfigData{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"del", "set"}, cache.ops)

	// When the upsert fails, the stale entry is gone and nothing new is
	// cached, so the next fetch goes to the database.
	cache.ops = nil
	repo.upsertErr = errors.New("disk full")
	_, err = s.Save(context.Background(), "org-1", &config.SalesConfigData{CompanyName: "NewCo"})
	require.Error(t, err)
	assert.Equal(t, []string{"del"}, cache.ops)
	assert.Empty(t, cache.values)
}

func TestFetch_ServesCachedDocument(t *testing.T) {
	repo := newFakeRepo()
	cache := newFakeCache()
	s := NewConfigStore(repo, cache)

	_, err := s.Save(context.Background(), "org-1", &config.SalesConfigData{CompanyName: "Acme"})
	require.NoError(t, err)

	doc, err := s.Fetch(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", doc.CompanyName)
	assert.Equal(t, 0, repo.getCalls)
}

func TestClearError(t *testing.T) {
	repo := newFakeRepo()
	repo.getErr = errors.New("boom")
	s := NewConfigStore(repo, nil)

	_, _ = s.Fetch(context.Background(), "org-1")
	require.NotEmpty(t, s.State().LastError)

	s.ClearError()
	assert.Empty(t, s.State().LastError)
}
