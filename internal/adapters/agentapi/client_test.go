package agentapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClareAI/astra-sales-console/internal/domain"
)

func TestSendChatMessage(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/preview/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(ChatResponse{
			Response:     "Of course, here are our plans.",
			SessionToken: "tok-1",
			ToolCalls:    []ToolCall{{Name: "qualify_lead", Result: "warm", Sandbox: true}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	resp, err := client.SendChatMessage(context.Background(), &ChatRequest{Message: "pricing?"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "pricing?", gotReq.Message)
	assert.Equal(t, "tok-1", resp.SessionToken)
	require.Len(t, resp.ToolCalls, 1)
	assert.True(t, resp.ToolCalls[0].Sandbox)
}

func TestSendChatMessage_SurfacesDetailBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"detail": "rate limit exceeded"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.SendChatMessage(context.Background(), &ChatRequest{Message: "hi"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", apiErr.Error())
}

func TestSendChatMessage_NoBearerWhenTokenEmpty(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.SendChatMessage(context.Background(), &ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGetSuggestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/preview/suggestions", r.URL.Path)
		json.NewEncoder(w).Encode([]Suggestion{
			{Label: "Pricing", Message: "How much does it cost?"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	got, err := client.GetSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pricing", got[0].Label)
}

func TestValidateInvitation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/invitations/validate/tok-abc", r.URL.Path)
		json.NewEncoder(w).Encode(domain.InvitationInfo{
			Valid:        true,
			Email:        "maria@example.com",
			ExistingUser: true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	info, err := client.ValidateInvitation(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.True(t, info.Valid)
	assert.True(t, info.ExistingUser)
}

func TestAcceptInvitation_SurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/invitations/accept", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "email already registered"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	err := client.AcceptInvitation(context.Background(), &domain.AcceptInvitationRequest{
		Token:    "tok-abc",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "email already registered", err.Error())
}
