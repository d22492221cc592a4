package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxCompared bounds how many products fit side by side.
const MaxCompared = 4

var ErrTooManyCompared = fmt.Errorf("at most %d products can be compared", MaxCompared)

type ComparisonRow struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

type Comparison struct {
	ProductIDs []string        `json:"product_ids"`
	Rows       []ComparisonRow `json:"rows"`
}

type spec struct {
	key, label string
	value      func(Product) string
}

var comparisonSpecs = []spec{
	{"price", "Price", func(p Product) string { return "€" + p.Price.StringFixed(2) }},
	{"discount", "Discount", func(p Product) string {
		if p.Discount > 0 {
			return "-" + strconv.Itoa(p.Discount) + "%"
		}
		return "None"
	}},
	{"final_price", "Final price", func(p Product) string { return "€" + p.EffectivePrice().StringFixed(2) }},
	{"rating", "Rating", func(p Product) string { return strconv.FormatFloat(p.Rating, 'f', 1, 64) + "/5" }},
	{"in_stock", "In stock", func(p Product) string { return yesNo(p.Available()) }},
	{"category", "Category", func(p Product) string { return p.Category.Label() }},
	{"tags", "Tags", func(p Product) string {
		if len(p.Tags) == 0 {
			return "None"
		}
		return strings.Join(p.Tags, ", ")
	}},
	{"new", "New", func(p Product) string { return yesNo(p.IsNew) }},
	{"brand", "Brand", func(p Product) string { return orDash(p.Brand) }},
	{"description", "Description", func(p Product) string { return orDash(p.Description) }},
}

// Compare lays out the given products attribute by attribute, one column per
// product in the order given.
func Compare(products ...Product) (Comparison, error) {
	if len(products) == 0 {
		return Comparison{}, errors.New("nothing to compare")
	}
	if len(products) > MaxCompared {
		return Comparison{}, ErrTooManyCompared
	}
	c := Comparison{ProductIDs: make([]string, 0, len(products))}
	for _, p := range products {
		c.ProductIDs = append(c.ProductIDs, p.ID)
	}
	for _, s := range comparisonSpecs {
		row := ComparisonRow{Key: s.key, Label: s.label, Values: make([]string, 0, len(products))}
		for _, p := range products {
			row.Values = append(row.Values, s.value(p))
		}
		c.Rows = append(c.Rows, row)
	}
	return c, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
