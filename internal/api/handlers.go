package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayasato/gekkan/internal/apperr"
	"github.com/ayasato/gekkan/internal/schedule"
	"github.com/ayasato/gekkan/internal/scheduleservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *scheduleservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *scheduleservice.Service) *Handler {
	return &Handler{svc: svc}
}

// writeError maps service errors onto the response envelope.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrDraftNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrDuplicate), errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidDraft),
		errors.Is(err, apperr.ErrNoDrafts):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// CreateIssue handles POST /api/issues.
//
//	@Summary		Create a new issue and seed its production schedule
//	@Tags			issues
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateIssueRequest	true	"Publish date"
//	@Success		201		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues [post]
func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.PublishDate == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("publish_date is required"))
		return
	}
	publish, err := time.Parse(dateLayout, req.PublishDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("publish_date must be YYYY-MM-DD"))
		return
	}

	iss, failures, err := h.svc.CreateIssue(r.Context(), publish)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, okBody(map[string]any{
		"label":              iss.Label(),
		"year":               iss.Year,
		"month":              iss.Month,
		"process_count":      len(iss.Processes),
		"provision_failures": failures,
	}))
}

// ListIssues handles GET /api/issues.
//
//	@Summary		List all issues
//	@Tags			issues
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues [get]
func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.svc.ListIssues(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(map[string]any{"issues": issues}))
}

// Board handles GET /api/issues/{label}/board.
//
//	@Summary		Full process board for one issue with resolved statuses
//	@Tags			issues
//	@Produce		json
//	@Param			label	path		string	true	"Issue label"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/board [get]
func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	views, err := h.svc.Board(r.Context(), label)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(map[string]any{
		"issue":     label,
		"processes": views,
	}))
}

// Ready handles GET /api/issues/{label}/ready.
//
//	@Summary		Processes whose prerequisites are all completed
//	@Tags			issues
//	@Produce		json
//	@Param			label	path		string	true	"Issue label"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	views, err := h.svc.ReadyProcesses(r.Context(), label)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(map[string]any{
		"issue":     label,
		"processes": views,
	}))
}

// Delayed handles GET /api/issues/{label}/delayed.
//
//	@Summary		Overdue processes with delay day counts
//	@Tags			issues
//	@Produce		json
//	@Param			label	path		string	true	"Issue label"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/delayed [get]
func (h *Handler) Delayed(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	delays, err := h.svc.DelayedProcesses(r.Context(), label)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(map[string]any{
		"issue":  label,
		"delays": delays,
	}))
}

// UpdatePlanned handles PUT /api/issues/{label}/processes/{processID}/planned.
//
//	@Summary		Replace the planned date of one process
//	@Tags			processes
//	@Accept			json
//	@Param			label		path	string					true	"Issue label"
//	@Param			processID	path	string					true	"Process id"
//	@Param			body		body	UpdatePlannedRequest	true	"New planned month/day"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/processes/{processID}/planned [put]
func (h *Handler) UpdatePlanned(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	processID := chi.URLParam(r, "processID")
	var req UpdatePlannedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	md, err := schedule.ParseMonthDay(req.Planned)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("planned must be M/D"))
		return
	}
	if err := h.svc.UpdatePlannedDate(r.Context(), label, processID, md); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(nil))
}

// UpdateActual handles PUT /api/issues/{label}/processes/{processID}/actual.
//
//	@Summary		Log the completion date of a dated process
//	@Tags			processes
//	@Accept			json
//	@Param			label		path	string				true	"Issue label"
//	@Param			processID	path	string				true	"Process id"
//	@Param			body		body	UpdateActualRequest	true	"Completion date"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/processes/{processID}/actual [put]
func (h *Handler) UpdateActual(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	processID := chi.URLParam(r, "processID")
	var req UpdateActualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	actual, err := time.Parse(dateLayout, req.Actual)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("actual must be YYYY-MM-DD"))
		return
	}
	if err := h.svc.UpdateActualDate(r.Context(), label, processID, actual); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(nil))
}

// AdvanceConfirmation handles PUT /api/issues/{label}/processes/{processID}/confirmation.
//
//	@Summary		Advance the confirmation state machine of one process
//	@Tags			processes
//	@Accept			json
//	@Param			label		path	string						true	"Issue label"
//	@Param			processID	path	string						true	"Process id"
//	@Param			body		body	AdvanceConfirmationRequest	true	"Action"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Failure		404		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/issues/{label}/processes/{processID}/confirmation [put]
func (h *Handler) AdvanceConfirmation(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")
	processID := chi.URLParam(r, "processID")
	var req AdvanceConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Action == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("action is required"))
		return
	}

	action := scheduleservice.ConfirmationAction{Action: req.Action, Version: req.Version}
	if req.Draft != nil {
		draft, err := req.Draft.toDraft()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		action.Draft = &draft
	}

	if err := h.svc.AdvanceConfirmation(r.Context(), label, processID, action); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okBody(nil))
}

// MasterProcesses handles GET /api/masters/processes.
//
//	@Summary		Active master tables: categories and process definitions
//	@Tags			masters
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/masters/processes [get]
func (h *Handler) MasterProcesses(w http.ResponseWriter, r *http.Request) {
	m := h.svc.Masters()
	writeJSON(w, http.StatusOK, okBody(map[string]any{
		"categories": m.Categories,
		"processes":  m.Processes,
	}))
}
