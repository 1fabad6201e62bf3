package handlers

import (
	"errors"
	"net/http"

	"github.com/rackline/pool-league-system/middleware"
	"github.com/rackline/pool-league-system/models"
	"github.com/rackline/pool-league-system/services"
)

type InviteHandler struct {
	inviteService services.InviteService
}

func NewInviteHandler(is services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: is}
}

func (h *InviteHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var input services.CreateInviteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	creatorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.CreatorID = creatorID

	invite, err := h.inviteService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	var status *models.InviteStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.InviteStatus(raw)
		status = &s
	}
	offset := 0
	if v := queryInt(r, "offset"); v != nil && *v > 0 {
		offset = *v
	}
	limit := 50
	if v := queryInt(r, "limit"); v != nil {
		limit = *v
	}

	list, err := h.inviteService.List(r.Context(), status, offset, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, list, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetInviteByToken is the public lookup used by the registration page
// to prefill names before the invitee submits.
func (h *InviteHandler) GetInviteByToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		badRequestResponse(w, r, errors.New("token query parameter is required"))
		return
	}

	invite, err := h.inviteService.GetByToken(r.Context(), token)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) ResendInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, err := getIDFromURL(r, "inviteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	invite, err := h.inviteService.Resend(r.Context(), inviteID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"invite": invite}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *InviteHandler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, err := getIDFromURL(r, "inviteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.inviteService.Revoke(r.Context(), inviteID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
