package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownProduct = errors.New("unknown product")

//go:embed seed.json
var seedJSON []byte

// Catalog is the read-only product set shared by every component.
type Catalog struct {
	products []Product
	byID     map[string]int
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, errors.New("product without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id: %s", p.ID)
		}
		if p.Price.IsNegative() || p.Stock < 0 || p.ReviewCount < 0 {
			return nil, fmt.Errorf("invalid product %s: negative price, stock or review count", p.ID)
		}
		if p.Rating < 0 || p.Rating > 5 || p.Discount < 0 || p.Discount > 100 {
			return nil, fmt.Errorf("invalid product %s: rating or discount out of range", p.ID)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("invalid product %s: category %q", p.ID, p.Category)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// LoadSeed builds the catalog from the embedded data set.
func LoadSeed() (*Catalog, error) {
	return Parse(seedJSON)
}

func Parse(b []byte) (*Catalog, error) {
	var ps []Product
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(ps)
}

// All returns a copy of the products in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

func (c *Catalog) Len() int { return len(c.products) }

type CategoryCount struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Count    int      `json:"count"`
}

// CategoryCounts reports every known category with its product count.
func (c *Catalog) CategoryCounts() []CategoryCount {
	counts := map[Category]int{}
	for _, p := range c.products {
		counts[p.Category]++
	}
	out := make([]CategoryCount, 0, len(Categories))
	for _, cat := range Categories {
		out = append(out, CategoryCount{Category: cat, Label: cat.Label(), Count: counts[cat]})
	}
	return out
}

// PriceRange returns the lowest and highest base price, zero for an empty catalog.
func (c *Catalog) PriceRange() (lo, hi decimal.Decimal) {
	if len(c.products) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi = c.products[0].Price, c.products[0].Price
	for _, p := range c.products[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return lo, hi
}
