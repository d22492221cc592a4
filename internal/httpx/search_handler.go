package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/searchhistory"
	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/go-chi/chi/v5"
)

type HistoryResp struct {
	Entries []searchhistory.Entry `json:"entries"`
	Recent  []searchhistory.Entry `json:"recent"`
	Popular []searchhistory.Entry `json:"popular"`
}

type AddHistoryReq struct {
	Query string `json:"query"`
}

func (h *StorefrontHandler) historyView() HistoryResp {
	return HistoryResp{
		Entries: h.History.Entries(),
		Recent:  h.History.Recent(),
		Popular: h.History.Popular(),
	}
}

func (h *StorefrontHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.historyView())
}

func (h *StorefrontHandler) addHistory(w http.ResponseWriter, r *http.Request) {
	var req AddHistoryReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if searchhistory.Normalize(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	h.History.Add(req.Query)
	writeJSON(w, http.StatusOK, h.historyView())
}

func (h *StorefrontHandler) removeHistory(w http.ResponseWriter, r *http.Request) {
	h.History.Remove(chi.URLParam(r, "query"))
	writeJSON(w, http.StatusOK, h.historyView())
}

func (h *StorefrontHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	h.History.Clear()
	writeJSON(w, http.StatusOK, h.historyView())
}

func (h *StorefrontHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.History.Suggestions(r.URL.Query().Get("q")))
}

func (h *StorefrontHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Storage.LoadPreferences(r.Context()))
}

func (h *StorefrontHandler) putPreferences(w http.ResponseWriter, r *http.Request) {
	var p storage.Preferences
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.SortBy != "" {
		key, ok := catalog.ParseSortKey(p.SortBy)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown sort_by")
			return
		}
		p.SortBy = string(key)
	}
	if c := catalog.Category(p.FilterCategory); c != "" && c != catalog.CategoryAll && !c.Valid() {
		writeError(w, http.StatusBadRequest, "unknown filter_category")
		return
	}
	h.Storage.SavePreferences(r.Context(), p)
	writeJSON(w, http.StatusOK, h.Storage.LoadPreferences(r.Context()))
}

func (h *StorefrontHandler) getStorage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"size": h.Storage.Size(r.Context()),
		"data": h.Storage.AppData(r.Context()),
	})
}

// clearStorage drops the persisted cart, favorites and search history. The
// running process keeps its in-memory state until it is restarted.
func (h *StorefrontHandler) clearStorage(w http.ResponseWriter, r *http.Request) {
	if h.Clearer == nil {
		writeError(w, http.StatusServiceUnavailable, "storage not available")
		return
	}
	h.Clearer.ClearAll()
	h.notify("Saved data cleared", toast.Info)
	w.WriteHeader(http.StatusNoContent)
}
