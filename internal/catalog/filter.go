package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

var sortAliases = map[string]SortKey{
	"price-low":         SortPriceLow,
	"price-ascending":   SortPriceLow,
	"price-high":        SortPriceHigh,
	"price-descending":  SortPriceHigh,
	"rating":            SortRating,
	"rating-descending": SortRating,
	"newest":            SortNewest,
	"newest-first":      SortNewest,
}

// ParseSortKey accepts the short and long spellings; anything else yields
// the default key and false.
func ParseSortKey(s string) (SortKey, bool) {
	k, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return SortPriceLow, false
	}
	return k, true
}

// Filter is the transient filter state a client holds while browsing.
type Filter struct {
	Category Category `json:"category"`
	Query    string   `json:"query"`
	Sort     SortKey  `json:"sort"`
}

func DefaultFilter() Filter {
	return Filter{Category: CategoryAll, Sort: SortPriceLow}
}

func (f *Filter) Reset() { *f = DefaultFilter() }

func (f Filter) Apply(products []Product) []Product {
	return FilterAndSort(products, f.Category, f.Query, f.Sort)
}

// FilterAndSort keeps products of the given category (or all) whose title,
// description or any tag contains query case-insensitively, then orders them
// stably by key. Price ordering uses the base price, not the discounted one.
// The input slice is never modified.
func FilterAndSort(products []Product, category Category, query string, key SortKey) []Product {
	q := strings.ToLower(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}

	switch key {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int { return cmpFloatDesc(a.Rating, b.Rating) })
	case SortNewest:
		slices.SortStableFunc(out, func(a, b Product) int { return boolRank(b.IsNew) - boolRank(a.IsNew) })
	}
	return out
}

func matches(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func cmpFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RangeFilter narrows a list by price bounds, minimum rating and a category
// set. Zero values disable the corresponding bound.
type RangeFilter struct {
	MinPrice   decimal.Decimal `json:"min_price"`
	MaxPrice   decimal.Decimal `json:"max_price"`
	MinRating  float64         `json:"min_rating"`
	Categories []Category      `json:"categories,omitempty"`
}

func (r RangeFilter) IsZero() bool {
	return r.MinPrice.IsZero() && r.MaxPrice.IsZero() && r.MinRating == 0 && len(r.Categories) == 0
}

// ApplyRange returns the products inside r, preserving order.
func ApplyRange(products []Product, r RangeFilter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !r.MinPrice.IsZero() && p.Price.LessThan(r.MinPrice) {
			continue
		}
		if !r.MaxPrice.IsZero() && p.Price.GreaterThan(r.MaxPrice) {
			continue
		}
		if p.Rating < r.MinRating {
			continue
		}
		if len(r.Categories) > 0 && !slices.Contains(r.Categories, p.Category) {
			continue
		}
		out = append(out, p)
	}
	return out
}
