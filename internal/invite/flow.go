// Package invite implements the invitation acceptance flow: validating a
// one-time token and branching into the join-existing-account or
// register-new-account completion path.
package invite

import (
	"context"
	"strings"
	"unicode"

	"github.com/ClareAI/astra-sales-console/internal/domain"
)

// State is the flow's current position. Validating branches into Invalid,
// ExistingUser or NewUser; the two user branches go through Submitting into
// Done or SubmitError.
type State string

const (
	StateValidating   State = "validating"
	StateInvalid      State = "invalid"
	StateExistingUser State = "existing_user"
	StateNewUser      State = "new_user"
	StateSubmitting   State = "submitting"
	StateDone         State = "done"
	StateSubmitError  State = "submit_error"
)

// ReasonNoToken is the invalid reason used when no token was provided at all;
// that case never reaches the network.
const ReasonNoToken = "no token provided"

// PlaceholderPassword is the fixed credential sent on the existing-user path.
// The backend accepts invitation-linked accounts without a password check
// there: the user's real credential stays untouched, only organization
// membership is granted.
const PlaceholderPassword = "invitation"

// MinPasswordLength is the local minimum for the new-user password.
const MinPasswordLength = 6

// Local validation messages. These never come from the network.
const (
	ErrPasswordTooShort = "password must be at least 6 characters"
	ErrPasswordMismatch = "passwords do not match"
)

// Client is the slice of the agent backend the flow needs.
type Client interface {
	ValidateInvitation(ctx context.Context, token string) (*domain.InvitationInfo, error)
	AcceptInvitation(ctx context.Context, req *domain.AcceptInvitationRequest) error
}

// Flow is one invitation acceptance in progress. A Flow belongs to a single
// goroutine; it is not safe for concurrent use.
type Flow struct {
	client Client
	token  string

	state  State
	branch State // ExistingUser or NewUser once validated
	info   *domain.InvitationInfo

	name string

	invalidReason string
	localErr      string
	submitErr     string
}

// NewFlow starts a flow for a token. An empty token is immediately Invalid
// with ReasonNoToken and will never issue a network call.
func NewFlow(client Client, token string) *Flow {
	f := &Flow{
		client: client,
		token:  token,
		state:  StateValidating,
	}
	if token == "" {
		f.state = StateInvalid
		f.invalidReason = ReasonNoToken
	}
	return f
}

// Validate asks the backend to validate the token and resolves the branch.
// The branch is determined solely by InvitationInfo.ExistingUser. A rejected
// token surfaces the backend's reason verbatim.
func (f *Flow) Validate(ctx context.Context) State {
	if f.state != StateValidating {
		return f.state
	}

	info, err := f.client.ValidateInvitation(ctx, f.token)
	if err != nil {
		f.state = StateInvalid
		f.invalidReason = err.Error()
		return f.state
	}
	if !info.Valid {
		f.state = StateInvalid
		f.invalidReason = "invitation is no longer valid"
		return f.state
	}

	f.info = info
	if info.ExistingUser {
		f.state = StateExistingUser
	} else {
		f.state = StateNewUser
		f.name = defaultNameFromEmail(info.Email)
	}
	f.branch = f.state
	return f.state
}

// State returns the current state.
func (f *Flow) State() State { return f.state }

// Info returns the validated invitation info, nil before validation succeeds.
func (f *Flow) Info() *domain.InvitationInfo { return f.info }

// InvalidReason returns why the flow is Invalid.
func (f *Flow) InvalidReason() string { return f.invalidReason }

// Name returns the display name to register, pre-filled from the email's
// local part for new users.
func (f *Flow) Name() string { return f.name }

// SetName overrides the display name before submitting.
func (f *Flow) SetName(name string) { f.name = name }

// LocalError returns the current local validation message, resolved entirely
// client-side and distinct from a backend SubmitError.
func (f *Flow) LocalError() string { return f.localErr }

// SubmitError returns the backend's error detail from the last failed submit.
func (f *Flow) SubmitError() string { return f.submitErr }

// Submit attempts to complete the invitation. On the existing-user branch any
// password arguments are ignored and the fixed placeholder credential is
// sent. On the new-user branch local validation runs first; a failure keeps
// the form state and never reaches the network. A backend failure moves to
// SubmitError with all entered values preserved: the token is still
// considered valid and Submit may be retried without re-validating.
func (f *Flow) Submit(ctx context.Context, password, confirmation string) State {
	branch := f.state
	if branch == StateSubmitError {
		branch = f.branch
	}

	var req *domain.AcceptInvitationRequest
	switch branch {
	case StateExistingUser:
		req = &domain.AcceptInvitationRequest{
			Token:    f.token,
			Password: PlaceholderPassword,
		}
	case StateNewUser:
		f.localErr = validatePassword(password, confirmation)
		if f.localErr != "" {
			f.state = StateNewUser
			return f.state
		}
		req = &domain.AcceptInvitationRequest{
			Token:    f.token,
			Password: password,
			Name:     f.name,
		}
	default:
		return f.state
	}

	f.localErr = ""
	f.submitErr = ""
	f.state = StateSubmitting

	if err := f.client.AcceptInvitation(ctx, req); err != nil {
		f.state = StateSubmitError
		f.submitErr = err.Error()
		return f.state
	}

	f.state = StateDone
	return f.state
}

func validatePassword(password, confirmation string) string {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	return ""
}

// defaultNameFromEmail derives a starter display name from the email's local
// part with the first character capitalized. It is a convenience only and is
// always overridable before submit.
func defaultNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return ""
	}
	runes := []rune(local)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
