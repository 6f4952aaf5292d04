package api

import (
	"net/http"

	"github.com/fastprodman/golfwager/internal/repos/users"
)

// RegisterHandler handles POST /me
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.accounts.Register(r.Context(), userIDFrom(r.Context()), req.DisplayName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// GetMeHandler handles GET /me
func (h *HandlerProvider) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.accounts.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// UpdateMeHandler handles PATCH /me
func (h *HandlerProvider) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	var req profileRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.accounts.UpdateProfile(r.Context(), userIDFrom(r.Context()), users.ProfileUpdate{
		DisplayName: req.DisplayName,
		Handicap:    req.Handicap,
		HomeCourse:  req.HomeCourse,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}
