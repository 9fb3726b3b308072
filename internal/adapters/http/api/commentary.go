// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	app "github.com/matchpulse/liveticker/internal/app"
	"github.com/matchpulse/liveticker/internal/auth"
	"github.com/matchpulse/liveticker/internal/domain/model"
)

// CommentaryHandler serves the live-commentary resource: public windowed
// reads and role-gated event submission.
type CommentaryHandler struct {
	deps     Dependencies
	verifier auth.Verifier
}

// NewCommentaryHandler creates a new commentary handler.
func NewCommentaryHandler(deps Dependencies, verifier auth.Verifier) *CommentaryHandler {
	return &CommentaryHandler{deps: deps, verifier: verifier}
}

// HandleCommentary dispatches /api/live-commentary by method.
func (h *CommentaryHandler) HandleCommentary(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleList handles GET /api/live-commentary. No auth required; the feed
// is public content. An optional limit query narrows the window.
func (h *CommentaryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_commentary"
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.deps.ReadActive(r.Context(), limit))
}

// commentaryRequest mirrors the wire schema for POST /api/live-commentary.
// IsActive is a pointer so an absent field defaults to true, matching the
// insert schema of the publishing platform.
type commentaryRequest struct {
	MatchID    string  `json:"matchId"`
	TeamHome   string  `json:"teamHome"`
	TeamAway   string  `json:"teamAway"`
	ScoreHome  int     `json:"scoreHome"`
	ScoreAway  int     `json:"scoreAway"`
	Commentary string  `json:"commentary"`
	MatchTime  *string `json:"matchTime"`
	IsActive   *bool   `json:"isActive"`
}

func (req commentaryRequest) toInput() model.EventInput {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return model.EventInput{
		MatchID:    req.MatchID,
		TeamHome:   req.TeamHome,
		TeamAway:   req.TeamAway,
		ScoreHome:  req.ScoreHome,
		ScoreAway:  req.ScoreAway,
		Commentary: req.Commentary,
		MatchTime:  req.MatchTime,
		IsActive:   active,
	}
}

// handleSubmit handles POST /api/live-commentary.
func (h *CommentaryHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_commentary"

	var principal *auth.Principal
	if token := auth.BearerToken(r); token != "" {
		p, err := h.verifier.Verify(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", WrapKind(op, ErrUnauthenticated, err))
			return
		}
		principal = &p
	}

	var req commentaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ev, err := h.deps.Submit(r.Context(), req.toInput(), principal)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "unauthorized", Wrap(op, err))
		case errors.Is(err, app.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden", Wrap(op, err))
		case errors.Is(err, app.ErrValidation):
			writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}
