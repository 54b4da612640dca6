package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raido/internal/catalog"
)

// NewRouter creates a chi router with all status API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(cat catalog.PageCatalog, trigger RunTrigger, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(cat, trigger)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Archived pages.
	r.Get("/pages", h.ListPages)
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	// Run trigger.
	r.Post("/runs", h.TriggerRun)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
