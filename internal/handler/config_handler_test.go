package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClareAI/astra-sales-console/internal/config"
	"github.com/ClareAI/astra-sales-console/internal/domain"
	"github.com/ClareAI/astra-sales-console/internal/repository"
	"github.com/ClareAI/astra-sales-console/internal/store"
)

// memSalesConfigRepo is an in-memory SalesConfigRepository for handler tests.
type memSalesConfigRepo struct {
	records map[string]*domain.SalesAgentConfig
}

func newMemRepo() *memSalesConfigRepo {
	return &memSalesConfigRepo{records: make(map[string]*domain.SalesAgentConfig)}
}

func (m *memSalesConfigRepo) GetByOrganization(ctx context.Context, organizationID string) (*domain.SalesAgentConfig, error) {
	record, ok := m.records[organizationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return record, nil
}

func (m *memSalesConfigRepo) Upsert(ctx context.Context, organizationID string, doc *config.SalesConfigData) (*domain.SalesAgentConfig, error) {
	record := &domain.SalesAgentConfig{
		ID:             "rec-" + organizationID,
		OrganizationID: organizationID,
		AgentType:      config.AgentTypeSales,
		Config:         &domain.SalesConfigDocument{SalesConfigData: *doc},
	}
	m.records[organizationID] = record
	return record, nil
}

func (m *memSalesConfigRepo) CountByOrganization(ctx context.Context, organizationID string) (int, error) {
	if _, ok := m.records[organizationID]; ok {
		return 1, nil
	}
	return 0, nil
}

func newConfigTestRouter() (*mux.Router, *memSalesConfigRepo) {
	repo := newMemRepo()
	h := NewConfigHandler(store.NewConfigStore(repo, nil))

	router := mux.NewRouter()
	h.SetupConfigRoutes(router)
	return router, repo
}

func TestGetConfig_FirstTimeOrganizationGetsDefaults(t *testing.T) {
	router, _ := newConfigTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/organizations/org-1/sales-config", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var doc config.SalesConfigData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, config.LanguageRU, doc.PrimaryLanguage)
	assert.NotNil(t, doc.CTASettings)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	router, repo := newConfigTestRouter()

	body, _ := json.Marshal(domain.SaveSalesConfigRequest{
		Config: &config.SalesConfigData{CompanyName: "Acme", AgentName: "Anna"},
	})
	req := httptest.NewRequest(http.MethodPut, "/organizations/org-1/sales-config", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.records["org-1"])
	assert.Equal(t, "Acme", repo.records["org-1"].Config.CompanyName)

	// The response carries the fully materialized document.
	var doc config.SalesConfigData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.NotNil(t, doc.BANTQualification)
}

func TestSaveConfig_ValidationFailureIs400(t *testing.T) {
	router, repo := newConfigTestRouter()

	invalid := config.Materialize(nil)
	invalid.PrimaryLanguage = "de"
	body, _ := json.Marshal(domain.SaveSalesConfigRequest{Config: invalid})

	req := httptest.NewRequest(http.MethodPut, "/organizations/org-1/sales-config", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, repo.records["org-1"])
}

func TestSaveConfig_MissingConfigIs400(t *testing.T) {
	router, _ := newConfigTestRouter()

	req := httptest.NewRequest(http.MethodPut, "/organizations/org-1/sales-config", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
