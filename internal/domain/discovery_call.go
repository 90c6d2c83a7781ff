package domain

import "time"

// Discovery call statuses
const (
	DiscoveryCallStatusScheduled = "scheduled"
	DiscoveryCallStatusCompleted = "completed"
	DiscoveryCallStatusCancelled = "cancelled"
	DiscoveryCallStatusNoShow    = "no_show"
)

// ValidDiscoveryCallStatus reports whether s is a known call status.
func ValidDiscoveryCallStatus(s string) bool {
	switch s {
	case DiscoveryCallStatusScheduled, DiscoveryCallStatusCompleted,
		DiscoveryCallStatusCancelled, DiscoveryCallStatusNoShow:
		return true
	}
	return false
}

// DiscoveryCall is one scheduled follow-up call produced by the agent's CTA.
// The console reads these mostly; the agent backend writes them.
type DiscoveryCall struct {
	ID             string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID string    `json:"organization_id" gorm:"type:varchar(255);not null;index"`
	ContactName    string    `json:"contact_name" gorm:"type:varchar(255)"`
	ContactEmail   string    `json:"contact_email" gorm:"type:varchar(255)"`
	ContactPhone   string    `json:"contact_phone" gorm:"type:varchar(64)"`
	CallType       string    `json:"call_type" gorm:"type:varchar(50)"`
	Status         string    `json:"status" gorm:"type:varchar(20);not null;default:'scheduled';index"`
	ScheduledAt    time.Time `json:"scheduled_at" gorm:"index"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for DiscoveryCall
func (DiscoveryCall) TableName() string {
	return "discovery_calls"
}

// CreateDiscoveryCallRequest is the request body for creating a call record.
type CreateDiscoveryCallRequest struct {
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	CallType     string    `json:"call_type"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
	Notes        string    `json:"notes,omitempty"`
}

// ListDiscoveryCallsFilter narrows a call-log listing. Nil fields are not
// applied.
type ListDiscoveryCallsFilter struct {
	Status        *string
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
}
