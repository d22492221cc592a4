package catalog

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFootwear    Category = "footwear"
	CategoryAccessories Category = "accessories"
	CategoryApparel     Category = "apparel"
	CategorySports      Category = "sports"

	// CategoryAll is the filter value that disables category matching.
	CategoryAll Category = "all"
)

// Categories lists the fixed category set in display order.
var Categories = []Category{CategoryFootwear, CategoryAccessories, CategoryApparel, CategorySports}

var categoryLabels = map[Category]string{
	CategoryFootwear:    "Footwear",
	CategoryAccessories: "Accessories",
	CategoryApparel:     "Apparel",
	CategorySports:      "Sports",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Brand       string          `json:"brand,omitempty"`
	Image       string          `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	Stock       int             `json:"stock"`
	Discount    int             `json:"discount,omitempty"` // percent, 0..100
	IsNew       bool            `json:"is_new,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the price after the discount percentage is applied.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.Discount <= 0 {
		return p.Price
	}
	d := p.Discount
	if d > 100 {
		d = 100
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(d))).Div(hundred)
	return p.Price.Mul(factor).Round(2)
}

func (p Product) Available() bool { return p.Stock > 0 }
