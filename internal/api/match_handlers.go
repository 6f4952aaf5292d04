package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/golfwager/internal/domain"
	"github.com/fastprodman/golfwager/internal/services/matches"
)

// CreateMatchHandler handles POST /matches
func (h *HandlerProvider) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest

	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wager := domain.Money(0)
	if req.Wager != "" {
		wager, err = domain.ParseMoney(req.Wager)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	m, err := h.matches.Create(r.Context(), matches.CreateParams{
		CreatorID:  userIDFrom(r.Context()),
		GameType:   domain.GameType(req.GameType),
		Format:     domain.Format(req.Format),
		CourseName: req.CourseName,
		Pars:       req.Pars,
		Wager:      wager,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMatchResponse(m))
}

// ListMatchesHandler handles GET /matches. With joinable=true it lists open
// matches the caller could join, otherwise the caller's own matches.
func (h *HandlerProvider) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := userIDFrom(r.Context())

	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	joinable, _ := strconv.ParseBool(q.Get("joinable"))
	if !joinable {
		ms, err := h.matches.ListForUser(r.Context(), userID, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, toMatchList(ms))
		return
	}

	f := matches.ListFilter{
		GameType:    domain.GameType(q.Get("gameType")),
		Format:      domain.Format(q.Get("format")),
		ExcludeUser: userID,
		Limit:       limit,
	}

	if raw := q.Get("maxWager"); raw != "" {
		f.MaxWager, err = domain.ParseMoney(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ms, err := h.matches.ListJoinable(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchList(ms))
}

// GetMatchHandler handles GET /matches/{matchId}
func (h *HandlerProvider) GetMatchHandler(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.Get(r.Context(), chi.URLParam(r, "matchId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(m))
}

// JoinMatchHandler handles POST /matches/{matchId}/join
func (h *HandlerProvider) JoinMatchHandler(w http.ResponseWriter, r *http.Request) {
	m, err := h.matches.Join(r.Context(), chi.URLParam(r, "matchId"), userIDFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMatchResponse(m))
}

// SubmitScoreHandler handles PUT /matches/{matchId}/holes/{hole}/score
func (h *HandlerProvider) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	hole, err := parseHoleFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req scoreRequest

	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.matches.SubmitScore(r.Context(), chi.URLParam(r, "matchId"), userIDFrom(r.Context()), hole, req.Strokes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ConfirmScoreHandler handles POST /matches/{matchId}/holes/{hole}/confirm
func (h *HandlerProvider) ConfirmScoreHandler(w http.ResponseWriter, r *http.Request) {
	hole, err := parseHoleFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.matches.ConfirmScore(r.Context(), chi.URLParam(r, "matchId"), userIDFrom(r.Context()), hole)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// StandingsHandler handles GET /matches/{matchId}/standings
func (h *HandlerProvider) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := h.matches.Standings(r.Context(), chi.URLParam(r, "matchId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}
