package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClareAI/astra-sales-console/internal/config"
)

// SalesAgentConfig is the stored configuration record for one organization's
// sales agent. The unique index over (organization_id, agent_type) enforces at
// most one record per key; saves are full-document replacements, never
// field-level patches.
type SalesAgentConfig struct {
	ID             string               `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID string               `json:"organization_id" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_org_agent_type"`
	AgentType      string               `json:"agent_type" gorm:"type:varchar(50);not null;default:'sales';uniqueIndex:idx_org_agent_type"`
	Config         *SalesConfigDocument `json:"config" gorm:"type:jsonb"`
	CreatedAt      time.Time            `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time            `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for SalesAgentConfig
func (SalesAgentConfig) TableName() string {
	return "sales_agent_configs"
}

// SalesConfigDocument wraps the configuration document for jsonb storage.
type SalesConfigDocument struct {
	config.SalesConfigData
}

// Value implements driver.Valuer for SalesConfigDocument
func (d SalesConfigDocument) Value() (driver.Value, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Scan implements sql.Scanner for SalesConfigDocument
func (d *SalesConfigDocument) Scan(value interface{}) error {
	if value == nil {
		*d = SalesConfigDocument{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SalesConfigDocument", value)
	}

	return json.Unmarshal(bytes, d)
}

// SaveSalesConfigRequest is the request body for a full-document save.
type SaveSalesConfigRequest struct {
	Config *config.SalesConfigData `json:"config" validate:"required"`
}
