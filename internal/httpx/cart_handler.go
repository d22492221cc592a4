package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/shopping"
	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CartResp struct {
	Lines []shopping.CartLine `json:"lines"`
	Total decimal.Decimal     `json:"total"`
	Count int                 `json:"count"`
}

type AddCartItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemReq struct {
	Quantity *int `json:"quantity"`
}

type FavoriteResp struct {
	ProductID string           `json:"product_id"`
	AddedAt   time.Time        `json:"added_at"`
	Product   *catalog.Product `json:"product,omitempty"`
}

func cartView(m *shopping.Manager) CartResp {
	return CartResp{Lines: m.Cart(), Total: m.CartTotal(), Count: m.CartCount()}
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartView(shopping.MustFromContext(r.Context())))
}

func (h *StorefrontHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing product_id")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	p, ok := h.Catalog.Get(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	m := shopping.MustFromContext(r.Context())
	m.AddToCart(r.Context(), p, req.Quantity)
	h.notify(p.Title+" added to cart", toast.Success)
	writeJSON(w, http.StatusOK, cartView(m))
}

func (h *StorefrontHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemReq
	if err := decode(r, &req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	m := shopping.MustFromContext(r.Context())
	m.UpdateCartQuantity(r.Context(), chi.URLParam(r, "id"), *req.Quantity)
	writeJSON(w, http.StatusOK, cartView(m))
}

func (h *StorefrontHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	m := shopping.MustFromContext(r.Context())
	m.RemoveFromCart(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, cartView(m))
}

func (h *StorefrontHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	m := shopping.MustFromContext(r.Context())
	m.ClearCart(r.Context())
	h.notify("Cart emptied", toast.Info)
	writeJSON(w, http.StatusOK, cartView(m))
}

func (h *StorefrontHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs := shopping.MustFromContext(r.Context()).Favorites()
	out := make([]FavoriteResp, 0, len(favs))
	for _, f := range favs {
		fr := FavoriteResp{ProductID: f.ProductID, AddedAt: f.AddedAt}
		if p, ok := h.Catalog.Get(f.ProductID); ok {
			fr.Product = &p
		}
		out = append(out, fr)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StorefrontHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	fav := shopping.MustFromContext(r.Context()).ToggleFavorite(r.Context(), p.ID)
	if fav {
		h.notify(p.Title+" added to wishlist", toast.Success)
	} else {
		h.notify(p.Title+" removed from wishlist", toast.Info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"product_id": p.ID, "favorite": fav})
}
