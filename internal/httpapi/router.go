// Package httpapi exposes a shelf.Store as a small JSON API for the mobile
// web front end.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/internal/shelf"
)

// WarningHeader is set on a successful mutation whose write to storage failed.
const WarningHeader = "X-Shelf-Warning"

// maxBodyBytes caps request bodies; drafts are a handful of short strings.
const maxBodyBytes = 64 << 10

// Options configures the router.
type Options struct {
	// StaticDir, when set, is served under / for the web front end.
	StaticDir string
	Logger    *zap.Logger
}

type handler struct {
	store  *shelf.Store
	logger *zap.Logger
}

// NewRouter returns the API routes over store.
func NewRouter(store *shelf.Store, opts Options) *mux.Router {
	h := &handler{store: store, logger: opts.Logger}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/items", h.listItems).Methods(http.MethodGet)
	r.HandleFunc("/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/items/{id}", h.getItem).Methods(http.MethodGet)
	r.HandleFunc("/items/{id}", h.removeItem).Methods(http.MethodDelete)
	r.HandleFunc("/items/{id}/status", h.updateStatus).Methods(http.MethodPut)
	r.HandleFunc("/items/{id}/favorite", h.toggleFavorite).Methods(http.MethodPost)
	r.HandleFunc("/prefs", h.getPrefs).Methods(http.MethodGet)
	r.HandleFunc("/prefs", h.setPrefs).Methods(http.MethodPatch)

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir))).Methods(http.MethodGet)
	}
	return r
}
