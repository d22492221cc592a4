package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/go-chi/chi/v5"
)

type PostToastReq struct {
	Message    string `json:"message"`
	Severity   string `json:"severity"`
	DurationMS *int64 `json:"duration_ms"`
}

func (h *StorefrontHandler) listToasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Toasts.Snapshot())
}

func (h *StorefrontHandler) postToast(w http.ResponseWriter, r *http.Request) {
	var req PostToastReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	ttl := h.ToastTTL
	if req.DurationMS != nil {
		ttl = time.Duration(*req.DurationMS) * time.Millisecond
	}
	id := h.Toasts.Post(req.Message, toast.ParseSeverity(req.Severity), ttl)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *StorefrontHandler) dismissToast(w http.ResponseWriter, r *http.Request) {
	h.Toasts.Dismiss(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) clearToasts(w http.ResponseWriter, r *http.Request) {
	h.Toasts.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// streamToasts pushes the toast list as server-sent events, one event per
// change, until the client goes away or the bus closes.
func (h *StorefrontHandler) streamToasts(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, cancel := h.Toasts.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case list, ok := <-ch:
			if !ok {
				return
			}
			raw, err := json.Marshal(list)
			if err != nil {
				h.logger().Error("encode toasts", "err", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: toasts\ndata: %s\n\n", raw); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
