package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-realtime-storefront/internal/activity"
	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/ariefcatur/go-realtime-storefront/internal/shopping"
	"github.com/ariefcatur/go-realtime-storefront/internal/toast"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ListProductsResp struct {
	Products []catalog.Product   `json:"products"`
	Stats    catalog.Stats       `json:"stats"`
	Filter   catalog.Filter      `json:"filter"`
	Range    catalog.RangeFilter `json:"range"`
}

type ProductResp struct {
	catalog.Product
	EffectivePrice decimal.Decimal       `json:"effective_price"`
	Favorite       bool                  `json:"favorite"`
	Reviews        catalog.ReviewSummary `json:"reviews"`
}

type SubmitReviewReq struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Comment string `json:"comment"`
}

func (h *StorefrontHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	lo, hi := h.Catalog.PriceRange()
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.Catalog.CategoryCounts(),
		"min_price":  lo,
		"max_price":  hi,
	})
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := catalog.DefaultFilter()
	if c := q.Get("category"); c != "" {
		cat := catalog.Category(strings.ToLower(c))
		if cat != catalog.CategoryAll && !cat.Valid() {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		f.Category = cat
	}
	f.Query = q.Get("q")
	if s := q.Get("sort"); s != "" {
		f.Sort, _ = catalog.ParseSortKey(s)
	}

	var rng catalog.RangeFilter
	var err error
	if rng.MinPrice, err = decimalParam(q.Get("min_price")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_price")
		return
	}
	if rng.MaxPrice, err = decimalParam(q.Get("max_price")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid max_price")
		return
	}
	if s := q.Get("min_rating"); s != "" {
		if rng.MinRating, err = strconv.ParseFloat(s, 64); err != nil || rng.MinRating < 0 || rng.MinRating > 5 {
			writeError(w, http.StatusBadRequest, "invalid min_rating")
			return
		}
	}

	products := f.Apply(h.Catalog.All())
	if !rng.IsZero() {
		products = catalog.ApplyRange(products, rng)
	}
	writeJSON(w, http.StatusOK, ListProductsResp{
		Products: products,
		Stats:    catalog.ComputeStats(products),
		Filter:   f,
		Range:    rng,
	})
}

func decimalParam(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative")
	}
	return d, nil
}

func (h *StorefrontHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	m := shopping.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, ProductResp{
		Product:        p,
		EffectivePrice: p.EffectivePrice(),
		Favorite:       m.IsFavorite(p.ID),
		Reviews:        h.Reviews.Summary(p.ID),
	})
}

func (h *StorefrontHandler) compareProducts(w http.ResponseWriter, r *http.Request) {
	var products []catalog.Product
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		p, ok := h.Catalog.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "product not found: "+id)
			return
		}
		products = append(products, p)
	}
	cmp, err := catalog.Compare(products...)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (h *StorefrontHandler) popularProducts(w http.ResponseWriter, r *http.Request) {
	if h.Redis == nil {
		writeError(w, http.StatusServiceUnavailable, "popularity not available")
		return
	}
	key := redisx.KeyPopularityCart
	if r.URL.Query().Get("kind") == "favorites" {
		key = redisx.KeyPopularityFavorites
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	scores, err := activity.Popular(r.Context(), h.Redis, key, limit)
	if err != nil {
		h.logger().Error("popular products", "err", err)
		writeError(w, http.StatusInternalServerError, "popularity lookup failed")
		return
	}
	type item struct {
		activity.Score
		Product *catalog.Product `json:"product,omitempty"`
	}
	out := make([]item, 0, len(scores))
	for _, s := range scores {
		it := item{Score: s}
		if p, ok := h.Catalog.Get(s.ProductID); ok {
			it.Product = &p
		}
		out = append(out, it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *StorefrontHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Catalog.Get(id); !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"summary": h.Reviews.Summary(id),
		"reviews": h.Reviews.List(id),
	})
}

func (h *StorefrontHandler) submitReview(w http.ResponseWriter, r *http.Request) {
	var req SubmitReviewReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	rv, err := h.Reviews.Submit(chi.URLParam(r, "id"), req.Rating, req.Title, req.Comment)
	switch {
	case errors.Is(err, catalog.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "product not found")
		return
	case errors.Is(err, catalog.ErrInvalidReview):
		writeError(w, http.StatusBadRequest, "rating must be 1-5 and title and comment are required")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.notify("Thanks for your review!", toast.Success)
	writeJSON(w, http.StatusCreated, rv)
}
