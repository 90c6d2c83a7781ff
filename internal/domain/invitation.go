package domain

import "time"

// InvitationInfo is the backend's verdict on a one-time invitation token. It
// fully determines the acceptance branch: an existing user joins the
// organization, a new user registers an account first.
type InvitationInfo struct {
	Valid            bool      `json:"valid"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	OrganizationName string    `json:"organization_name"`
	ExpiresAt        time.Time `json:"expires_at"`
	ExistingUser     bool      `json:"existing_user"`
}

// AcceptInvitationRequest is the request body sent to the invitation accept
// endpoint. Name is only meaningful for the new-user branch.
type AcceptInvitationRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}
