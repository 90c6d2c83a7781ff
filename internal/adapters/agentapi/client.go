// Package agentapi is the HTTP client for the external conversational sales
// agent backend: the sandboxed preview chat endpoint and the invitation
// endpoints. The backend is a black box; this package only moves requests and
// surfaces its {detail} error bodies.
package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client handles communication with the sales agent backend
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	bearerToken string
}

// Suggestion is one conversation starter offered by the preview UI.
type Suggestion struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// ToolCall is one tool invocation reported alongside an assistant reply.
// Sandbox marks actions that were simulated rather than applied to real data.
type ToolCall struct {
	Name    string `json:"name"`
	Result  string `json:"result"`
	Sandbox bool   `json:"sandbox"`
}

// ChatRequest is the body of a preview exchange. SessionToken is absent on the
// first exchange; the backend mints one and all later exchanges carry it.
type ChatRequest struct {
	Message      string `json:"message"`
	SessionToken string `json:"session_token,omitempty"`
}

// ChatResponse is the backend's reply to a preview exchange.
type ChatResponse struct {
	Response     string     `json:"response"`
	SessionToken string     `json:"session_token"`
	ToolCalls    []ToolCall `json:"tool_calls"`
}

// APIError is a non-success response from the agent backend, carrying the
// human-readable detail verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("agent backend returned status %d", e.StatusCode)
}

// NewClient creates a new agent backend client. bearerToken may be empty:
// unauthenticated preview is allowed and sandboxing for anonymous calls is the
// backend's decision.
func NewClient(baseURL, bearerToken string) *Client {
	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBearerToken replaces the bearer credential used for subsequent calls.
func (c *Client) SetBearerToken(token string) {
	c.bearerToken = token
}

// GetSuggestions fetches the conversation starter list.
func (c *Client) GetSuggestions(ctx context.Context) ([]Suggestion, error) {
	url := fmt.Sprintf("%s/api/v1/preview/suggestions", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestions request: %w", err)
	}
	c.applyAuth(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(resp)
	}

	var suggestions []Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	return suggestions, nil
}

// SendChatMessage performs one preview exchange against the sandboxed chat
// endpoint.
func (c *Client) SendChatMessage(ctx context.Context, chatReq *ChatRequest) (*ChatResponse, error) {
	url := fmt.Sprintf("%s/api/v1/preview/chat", c.BaseURL)

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.errorFromResponse(resp)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return &chatResp, nil
}

func (c *Client) applyAuth(req *http.Request) {
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
}

// errorFromResponse turns a non-success response into an APIError, surfacing
// the backend's {detail} body verbatim when present.
func (c *Client) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
