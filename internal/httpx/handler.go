package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	"github.com/ariefcatur/go-realtime-storefront/internal/searchhistory"
	"github.com/ariefcatur/go-realtime-storefront/internal/shopping"
	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

// BucketClearer queues bucket removals; *storage.Syncer satisfies it.
type BucketClearer interface {
	ClearAll()
}

// StorefrontHandler serves the client state over HTTP. Every dependency is
// owned by main and injected here.
type StorefrontHandler struct {
	Catalog  *catalog.Catalog
	Reviews  *catalog.ReviewBook
	Shopping *shopping.Manager
	History  *searchhistory.History
	Storage  *storage.Service
	Clearer  BucketClearer
	Toasts   *toast.Bus
	Redis    redis.Cmdable // optional, backs /products/popular
	ToastTTL time.Duration
	Log      *slog.Logger
}

func (h *StorefrontHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.scope)
		r.Use(middleware.Timeout(15 * time.Second))

		r.Get("/categories", h.listCategories)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/compare", h.compareProducts)
			r.Get("/popular", h.popularProducts)
			r.Get("/{id}", h.getProduct)
			r.Get("/{id}/reviews", h.listReviews)
			r.Post("/{id}/reviews", h.submitReview)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addCartItem)
			r.Patch("/items/{id}", h.updateCartItem)
			r.Delete("/items/{id}", h.removeCartItem)
		})

		r.Get("/favorites", h.listFavorites)
		r.Post("/favorites/{id}/toggle", h.toggleFavorite)

		r.Get("/search/history", h.getHistory)
		r.Post("/search/history", h.addHistory)
		r.Delete("/search/history", h.clearHistory)
		r.Delete("/search/history/{query}", h.removeHistory)
		r.Get("/search/suggestions", h.suggestions)

		r.Get("/preferences", h.getPreferences)
		r.Put("/preferences", h.putPreferences)
		r.Get("/storage", h.getStorage)
		r.Delete("/storage", h.clearStorage)

		r.Get("/toasts", h.listToasts)
		r.Post("/toasts", h.postToast)
		r.Delete("/toasts", h.clearToasts)
		r.Delete("/toasts/{id}", h.dismissToast)
	})

	// long-lived, so outside the request timeout
	r.Get("/toasts/stream", h.streamToasts)
}

// scope puts the shopping manager and the request id on the request context.
func (h *StorefrontHandler) scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shopping.WithManager(r.Context(), h.Shopping)
		ctx = events.WithTraceID(ctx, middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *StorefrontHandler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *StorefrontHandler) notify(message string, sev toast.Severity) {
	if h.Toasts == nil {
		return
	}
	h.Toasts.Post(message, sev, h.ToastTTL)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
