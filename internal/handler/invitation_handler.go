package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ClareAI/astra-sales-console/internal/invite"
	"github.com/ClareAI/astra-sales-console/pkg/logger"
)

// InvitationHandler bridges the invitation acceptance flow to HTTP. Each
// request drives a fresh flow; the browser carries the token between calls.
type InvitationHandler struct {
	client invite.Client
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(client invite.Client) *InvitationHandler {
	return &InvitationHandler{client: client}
}

type validateInvitationResponse struct {
	State            invite.State `json:"state"`
	Reason           string       `json:"reason,omitempty"`
	Email            string       `json:"email,omitempty"`
	Role             string       `json:"role,omitempty"`
	OrganizationName string       `json:"organization_name,omitempty"`
	Name             string       `json:"name,omitempty"`
}

type acceptInvitationRequest struct {
	Token        string `json:"token"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
	Name         string `json:"name,omitempty"`
}

type acceptInvitationResponse struct {
	State  invite.State `json:"state"`
	Reason string       `json:"reason,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// ValidateInvitation resolves a token into its acceptance branch so the UI can
// show the right form.
func (h *InvitationHandler) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	flow := invite.NewFlow(h.client, token)
	state := flow.Validate(r.Context())

	resp := validateInvitationResponse{State: state}
	if state == invite.StateInvalid {
		resp.Reason = flow.InvalidReason()
	}
	if info := flow.Info(); info != nil {
		resp.Email = info.Email
		resp.Role = info.Role
		resp.OrganizationName = info.OrganizationName
		resp.Name = flow.Name()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AcceptInvitation validates the token again and completes the flow in one
// call. Local password problems and a rejected token come back as 400 with the
// flow's reason; a backend submit failure is a 502 with the detail preserved.
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	flow := invite.NewFlow(h.client, req.Token)
	state := flow.Validate(r.Context())
	if state == invite.StateInvalid {
		writeInvitationResult(w, http.StatusBadRequest, acceptInvitationResponse{
			State:  state,
			Reason: flow.InvalidReason(),
		})
		return
	}

	if req.Name != "" {
		flow.SetName(req.Name)
	}

	state = flow.Submit(r.Context(), req.Password, req.Confirmation)
	switch state {
	case invite.StateDone:
		writeInvitationResult(w, http.StatusOK, acceptInvitationResponse{State: state})
	case invite.StateSubmitError:
		writeInvitationResult(w, http.StatusBadGateway, acceptInvitationResponse{
			State: state,
			Error: flow.SubmitError(),
		})
	default:
		// Local validation kept us on the form branch.
		writeInvitationResult(w, http.StatusBadRequest, acceptInvitationResponse{
			State: state,
			Error: flow.LocalError(),
		})
	}
}

func writeInvitationResult(w http.ResponseWriter, status int, resp acceptInvitationResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// SetupInvitationRoutes sets up invitation routes
func (h *InvitationHandler) SetupInvitationRoutes(router *mux.Router) {
	router.HandleFunc("/invitations/{token}", h.ValidateInvitation).Methods("GET")
	router.HandleFunc("/invitations/accept", h.AcceptInvitation).Methods("POST")

	logger.Base().Info("invitation routes registered")
}
