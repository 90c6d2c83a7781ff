package invite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// mockInviteClient is a test double for the invitation backend.
type mockInviteClient struct {
	info        *domain.InvitationInfo
	validateErr error
	acceptErr   error

	validateCalls int
	acceptCalls   int
	lastAccept    *domain.AcceptInvitationRequest
}

func (m *mockInviteClient) ValidateInvitation(ctx context.Context, token string) (*domain.InvitationInfo, error) {
	m.validateCalls++
	return m.info, m.validateErr
}

func (m *mockInviteClient) AcceptInvitation(ctx context.Context, req *domain.AcceptInvitationRequest) error {
	m.acceptCalls++
	m.lastAccept = req
	return m.acceptErr
}

func validInfo(existing bool) *domain.InvitationInfo {
	return &domain.InvitationInfo{
		Valid:            true,
		Email:            "maria.ivanova@example.com",
		Role:             "operator",
		OrganizationName: "Acme",
		ExistingUser:     existing,
	}
}

func TestNewFlow_NoTokenIsImmediatelyInvalid(t *testing.T) {
	client := &mockInviteClient{}
	flow := NewFlow(client, "")

	assert.Equal(t, StateInvalid, flow.State())
	assert.Equal(t, ReasonNoToken, flow.InvalidReason())

	// Validate on an invalid flow stays put and never reaches the network.
	assert.Equal(t, StateInvalid, flow.Validate(context.Background()))
	assert.Equal(t, 0, client.validateCalls)
}

func TestValidate_BackendErrorSurfacedVerbatim(t *testing.T) {
	client := &mockInviteClient{validateErr: errors.New("invitation has expired")}
	flow := NewFlow(client, "tok")

	state := flow.Validate(context.Background())
	assert.Equal(t, StateInvalid, state)
	assert.Equal(t, "invitation has expired", flow.InvalidReason())
}

func TestValidate_RejectedTokenIsInvalid(t *testing.T) {
	client := &mockInviteClient{info: &domain.InvitationInfo{Valid: false}}
	flow := NewFlow(client, "tok")

	assert.Equal(t, StateInvalid, flow.Validate(context.Background()))
}

func TestValidate_BranchesOnExistingUser(t *testing.T) {
	client := &mockInviteClient{info: validInfo(true)}
	flow := NewFlow(client, "tok")
	assert.Equal(t, StateExistingUser, flow.Validate(context.Background()))

	client = &mockInviteClient{info: validInfo(false)}
	flow = NewFlow(client, "tok")
	assert.Equal(t, StateNewUser, flow.Validate(context.Background()))
}

func TestValidate_NewUserNamePrefilledFromEmail(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false)}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())

	assert.Equal(t, "Maria.ivanova", flow.Name())
}

func TestSubmit_ExistingUserSendsPlaceholderCredential(t *testing.T) {
	client := &mockInviteClient{info: validInfo(true)}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())

	// Whatever the caller passes, the existing-user path sends the fixed
	// placeholder: the user's real credential is never touched.
	state := flow.Submit(context.Background(), "ignored", "also ignored")

	assert.Equal(t, StateDone, state)
	require.NotNil(t, client.lastAccept)
	assert.Equal(t, PlaceholderPassword, client.lastAccept.Password)
	assert.Equal(t, "tok", client.lastAccept.Token)
	assert.Empty(t, client.lastAccept.Name)
}

func TestSubmit_NewUserPasswordTooShort(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false)}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())

	state := flow.Submit(context.Background(), "12345", "12345")

	assert.Equal(t, StateNewUser, state)
	assert.Equal(t, ErrPasswordTooShort, flow.LocalError())
	assert.Equal(t, 0, client.acceptCalls)
}

func TestSubmit_NewUserPasswordMismatch(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false)}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())

	state := flow.Submit(context.Background(), "secret123", "secret124")

	assert.Equal(t, StateNewUser, state)
	assert.Equal(t, ErrPasswordMismatch, flow.LocalError())
	assert.Equal(t, 0, client.acceptCalls)
}

func TestSubmit_NewUserSuccess(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false)}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())
	flow.SetName("Maria Ivanova")

	state := flow.Submit(context.Background(), "secret123", "secret123")

	assert.Equal(t, StateDone, state)
	require.NotNil(t, client.lastAccept)
	assert.Equal(t, "secret123", client.lastAccept.Password)
	assert.Equal(t, "Maria Ivanova", client.lastAccept.Name)
}

func TestSubmit_BackendFailureIsRetryable(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false), acceptErr: errors.New("email already registered")}
	flow := NewFlow(client, "tok")
	flow.Validate(context.Background())

	state := flow.Submit(context.Background(), "secret123", "secret123")
	assert.Equal(t, StateSubmitError, state)
	assert.Equal(t, "email already registered", flow.SubmitError())

	// The token stays valid; a retry goes straight back to submitting
	// without re-validating.
	client.acceptErr = nil
	state = flow.Submit(context.Background(), "secret123", "secret123")
	assert.Equal(t, StateDone, state)
	assert.Equal(t, 1, client.validateCalls)
	assert.Equal(t, 2, client.acceptCalls)
}

func TestSubmit_BeforeValidationIsNoOp(t *testing.T) {
	client := &mockInviteClient{info: validInfo(false)}
	flow := NewFlow(client, "tok")

	state := flow.Submit(context.Background(), "secret123", "secret123")
	assert.Equal(t, StateValidating, state)
	assert.Equal(t, 0, client.acceptCalls)
}

func TestDefaultNameFromEmail(t *testing.T) {
	assert.Equal(t, "Maria", defaultNameFromEmail("maria@example.com"))
	assert.Equal(t, "", defaultNameFromEmail("@example.com"))
	assert.Equal(t, "", defaultNameFromEmail(""))
}
