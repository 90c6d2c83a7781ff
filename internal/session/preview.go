// Package session drives sandboxed preview conversations against the external
// sales agent so an operator can test a configuration without touching
// production data.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ClareAI/astra-sales-console/internal/adapters/agentapi"
)

// Message roles
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role      Role                `json:"role"`
	Content   string              `json:"content"`
	Timestamp time.Time           `json:"timestamp"`
	ToolCalls []agentapi.ToolCall `json:"tool_calls,omitempty"`
}

// ChatClient is the slice of the agent backend the session needs.
type ChatClient interface {
	GetSuggestions(ctx context.Context) ([]agentapi.Suggestion, error)
	SendChatMessage(ctx context.Context, req *agentapi.ChatRequest) (*agentapi.ChatResponse, error)
}

// defaultSuggestions is the built-in fallback used when the suggestions fetch
// fails: the conversation start must never be blocked on that call.
var defaultSuggestions = []agentapi.Suggestion{
	{Label: "Pricing", Message: "How much does it cost?"},
	{Label: "Features", Message: "What can your product do?"},
	{Label: "Book a call", Message: "I'd like to schedule a call with someone."},
	{Label: "Qualification", Message: "I'm evaluating solutions for my company."},
}

// PreviewSession is one ephemeral test conversation. The backend is stateless
// from the session's point of view: continuity is carried by an opaque session
// token minted on the first successful exchange and presented on every
// subsequent one.
//
// Sends are single-flight: at most one exchange is in flight per session, so
// transcript interleaving is impossible by construction. A send that fails
// rolls its optimistic user message back, leaving the transcript exactly as it
// was. Reset bumps the session generation; a late response from a pre-reset
// request is discarded by generation comparison instead of reviving the old
// transcript.
type PreviewSession struct {
	client ChatClient

	mu                  sync.Mutex
	transcript          []Message
	sessionToken        string
	generation          uint64
	inFlight            bool
	lastErr             string
	suggestions         []agentapi.Suggestion
	suggestionsLoaded   bool
	suggestionsFetching bool
	lastActivity        time.Time
}

// NewPreviewSession creates an empty session bound to an agent backend client.
func NewPreviewSession(client ChatClient) *PreviewSession {
	return &PreviewSession{
		client:       client,
		lastActivity: time.Now(),
	}
}

// Suggestions returns the conversation starters, fetching them from the
// backend once per session lifetime. The fetch is single-flight: a caller
// arriving while the fetch is outstanding gets the built-in set immediately
// instead of a second backend call. On transport failure it likewise returns
// the built-in set rather than an empty list.
func (s *PreviewSession) Suggestions(ctx context.Context) []agentapi.Suggestion {
	s.mu.Lock()
	if s.suggestionsLoaded {
		defer s.mu.Unlock()
		s.touch()
		return s.suggestions
	}
	if s.suggestionsFetching {
		defer s.mu.Unlock()
		s.touch()
		return defaultSuggestions
	}
	s.suggestionsFetching = true
	s.mu.Unlock()

	fetched, err := s.client.GetSuggestions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.suggestionsFetching = false
	if err != nil || len(fetched) == 0 {
		s.suggestions = defaultSuggestions
	} else {
		s.suggestions = fetched
	}
	s.suggestionsLoaded = true
	return s.suggestions
}

// Send performs one exchange. Whitespace-only text and sends issued while
// another exchange is in flight are no-ops returning (nil, nil) without any
// network call.
func (s *PreviewSession) Send(ctx context.Context, text string) (*Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, nil
	}
	s.inFlight = true
	s.lastErr = ""
	generation := s.generation
	token := s.sessionToken
	s.transcript = append(s.transcript, Message{
		Role:      RoleUser,
		Content:   trimmed,
		Timestamp: time.Now(),
	})
	s.touch()
	s.mu.Unlock()

	resp, err := s.client.SendChatMessage(ctx, &agentapi.ChatRequest{
		Message:      trimmed,
		SessionToken: token,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		// The session was reset while this exchange was in flight. The
		// pre-reset transcript is gone; drop the response on the floor.
		return nil, nil
	}

	s.inFlight = false
	s.touch()

	if err != nil {
		// Roll back the optimistic user message. Single-flight guarantees it
		// is still the last transcript entry.
		s.transcript = s.transcript[:len(s.transcript)-1]
		s.lastErr = err.Error()
		return nil, err
	}

	if resp.SessionToken != "" {
		s.sessionToken = resp.SessionToken
	}

	assistant := Message{
		Role:      RoleAssistant,
		Content:   resp.Response,
		Timestamp: time.Now(),
		ToolCalls: resp.ToolCalls,
	}
	s.transcript = append(s.transcript, assistant)
	return &assistant, nil
}

// Reset unconditionally discards the transcript and session token. Safe to
// call at any time, including while a send is in flight.
func (s *PreviewSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = nil
	s.sessionToken = ""
	s.generation++
	s.inFlight = false
	s.lastErr = ""
	s.suggestions = nil
	s.suggestionsLoaded = false
	s.suggestionsFetching = false
	s.touch()
}

// Transcript returns a copy of the current transcript.
func (s *PreviewSession) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SessionToken returns the current opaque continuity token, empty before the
// first successful exchange.
func (s *PreviewSession) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionToken
}

// InFlight reports whether an exchange is currently outstanding.
func (s *PreviewSession) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// LastError returns the most recent send error, empty when the last attempt
// succeeded. It stays in place until the next attempt or a reset.
func (s *PreviewSession) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastActivity returns the time of the last interaction with the session.
func (s *PreviewSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// touch must be called with s.mu held.
func (s *PreviewSession) touch() {
	s.lastActivity = time.Now()
}
