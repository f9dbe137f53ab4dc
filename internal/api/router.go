package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayasato/gekkan/internal/scheduleservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *scheduleservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Issues.
	r.Post("/issues", h.CreateIssue)
	r.Get("/issues", h.ListIssues)
	r.Get("/issues/{label}/board", h.Board)
	r.Get("/issues/{label}/ready", h.Ready)
	r.Get("/issues/{label}/delayed", h.Delayed)

	// Per-process updates.
	r.Put("/issues/{label}/processes/{processID}/planned", h.UpdatePlanned)
	r.Put("/issues/{label}/processes/{processID}/actual", h.UpdateActual)
	r.Put("/issues/{label}/processes/{processID}/confirmation", h.AdvanceConfirmation)

	// Master tables.
	r.Get("/masters/processes", h.MasterProcesses)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
