package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// ValidateInvitation asks the backend to validate a one-time invitation token.
// The token is opaque to the console; it is passed through untouched.
func (c *Client) ValidateInvitation(ctx context.Context, token string) (*domain.InvitationInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/invitations/validate/%s", c.BaseURL, url.PathEscape(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build validate request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invitation validation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(resp)
	}

	var info domain.InvitationInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode invitation info: %w", err)
	}
	return &info, nil
}

// AcceptInvitation completes an invitation: joining the organization for an
// existing user, or registering the account for a new one.
func (c *Client) AcceptInvitation(ctx context.Context, acceptReq *domain.AcceptInvitationRequest) error {
	endpoint := fmt.Sprintf("%s/api/v1/invitations/accept", c.BaseURL)

	body, err := json.Marshal(acceptReq)
	if err != nil {
		return fmt.Errorf("failed to marshal accept request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build accept request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("invitation accept failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp)
	}
	return nil
}
