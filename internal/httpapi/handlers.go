package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/internal/shelf"
	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

type statusRequest struct {
	Status types.Status `json:"status"`
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listItems returns the derived view for the stored preferences and ?q=.
func (h *handler) listItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.View(r.URL.Query().Get("q")))
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var draft types.Draft
	if !decode(w, r, &draft) {
		return
	}
	item, err := h.store.AddItem(draft)
	if !h.check(w, err) {
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.Item(mux.Vars(r)["id"])
	if !h.check(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if !h.check(w, h.store.RemoveItem(mux.Vars(r)["id"])) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.check(w, h.store.UpdateStatus(id, req.Status)) {
		return
	}
	item, err := h.store.Item(id)
	if !h.check(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	fav, err := h.store.ToggleFavorite(id)
	if !h.check(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{ID: id, Favorite: fav})
}

func (h *handler) getPrefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Preferences())
}

func (h *handler) setPrefs(w http.ResponseWriter, r *http.Request) {
	var patch types.PreferencesPatch
	if !decode(w, r, &patch) {
		return
	}
	prefs, err := h.store.SetPreferences(patch)
	if !h.check(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// check maps a store error to a response. It returns true when the handler
// should go on to write its success body; a failed write after an applied
// mutation only adds WarningHeader.
func (h *handler) check(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case shelf.IsNotSaved(err):
		h.logger.Warn("mutation applied but not saved", zap.Error(err))
		w.Header().Set(WarningHeader, types.ErrNotSaved.Error())
		return true
	case errors.Is(err, types.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrInvalidTitle),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidSort),
		errors.Is(err, types.ErrInvalidFilter):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return false
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
