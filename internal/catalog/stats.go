package catalog

import (
	"math"

	"github.com/shopspring/decimal"
)

type Stats struct {
	Total         int             `json:"total"`
	AverageRating float64         `json:"average_rating"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	InStock       int             `json:"in_stock"`
}

// ComputeStats summarises an already filtered list. Averages are zero for an
// empty list; rating is rounded to one decimal and price to two.
func ComputeStats(products []Product) Stats {
	s := Stats{Total: len(products), AveragePrice: decimal.Zero}
	if s.Total == 0 {
		return s
	}
	var ratingSum float64
	priceSum := decimal.Zero
	for _, p := range products {
		ratingSum += p.Rating
		priceSum = priceSum.Add(p.Price)
		if p.Stock > 0 {
			s.InStock++
		}
	}
	n := decimal.NewFromInt(int64(s.Total))
	s.AverageRating = math.Round(ratingSum/float64(s.Total)*10) / 10
	s.AveragePrice = priceSum.Div(n).Round(2)
	return s
}
