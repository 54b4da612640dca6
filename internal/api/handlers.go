package api

import (
	"net/http"
	"strconv"

	"github.com/starford/raido/internal/catalog"
)

// RunTrigger requests a new archive run. It returns false when a run is
// already in flight and the request was dropped.
type RunTrigger func() bool

// Handler serves catalog queries and run triggers.
type Handler struct {
	cat     catalog.PageCatalog
	trigger RunTrigger
}

// NewHandler creates a new API handler.
func NewHandler(cat catalog.PageCatalog, trigger RunTrigger) *Handler {
	return &Handler{cat: cat, trigger: trigger}
}

type pageListResponse struct {
	Pages  []catalog.Page `json:"pages"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListPages handles GET /pages?limit=&offset=.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 50)
	offset := intQuery(r, "offset", 0)

	pages, total, err := h.cat.ListPages(limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	if pages == nil {
		pages = []catalog.Page{}
	}
	writeJSON(w, http.StatusOK, pageListResponse{Pages: pages, Total: total, Limit: limit, Offset: offset})
}

// Search handles GET /search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing query parameter q"))
		return
	}

	pages, err := h.cat.SearchPages(q, intQuery(r, "limit", 20))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	if pages == nil {
		pages = []catalog.Page{}
	}
	writeJSON(w, http.StatusOK, pages)
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	_, total, err := h.cat.ListPages(1, 0)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"archived": total})
}

// TriggerRun handles POST /runs. The run executes asynchronously; 202 means
// accepted, 409 means a run is already in progress.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	if h.trigger == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody("run trigger unavailable"))
		return
	}
	if !h.trigger() {
		writeJSON(w, http.StatusConflict, errorBody("a run is already in progress"))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func intQuery(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
