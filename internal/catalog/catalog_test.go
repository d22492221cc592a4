package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	c, err := LoadSeed()
	require.NoError(t, err)
	assert.Equal(t, 8, c.Len())

	p, ok := c.Get("p-003")
	require.True(t, ok)
	assert.Equal(t, "Canvas Weekender Bag", p.Title)
	assert.True(t, decimal.RequireFromString("64.5").Equal(p.Price))

	_, ok = c.Get("nope")
	assert.False(t, ok)

	lo, hi := c.PriceRange()
	assert.Equal(t, "25", lo.String())
	assert.Equal(t, "249", hi.String())

	counts := c.CategoryCounts()
	require.Len(t, counts, len(Categories))
	for _, cc := range counts {
		assert.Equal(t, 2, cc.Count, cc.Category)
	}
}

func TestNew_RejectsInvalidProducts(t *testing.T) {
	ok := Product{ID: "x", Price: decimal.NewFromInt(1), Category: CategorySports}

	_, err := New([]Product{ok, ok})
	assert.ErrorContains(t, err, "duplicate")

	bad := ok
	bad.Price = decimal.NewFromInt(-1)
	_, err = New([]Product{bad})
	assert.Error(t, err)

	bad = ok
	bad.Rating = 5.5
	_, err = New([]Product{bad})
	assert.Error(t, err)

	bad = ok
	bad.Category = "toys"
	_, err = New([]Product{bad})
	assert.Error(t, err)

	_, err = Parse([]byte("{"))
	assert.ErrorContains(t, err, "decode catalog")
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := LoadSeed()
	require.NoError(t, err)
	all := c.All()
	all[0].Title = "changed"

	p, _ := c.Get(all[0].ID)
	assert.NotEqual(t, "changed", p.Title)
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("129.99"), Discount: 15}
	assert.Equal(t, "110.49", p.EffectivePrice().StringFixed(2))

	p.Discount = 0
	assert.True(t, p.Price.Equal(p.EffectivePrice()))

	p.Discount = 100
	assert.True(t, p.EffectivePrice().IsZero())
}

func TestCompare(t *testing.T) {
	c, err := LoadSeed()
	require.NoError(t, err)
	a, _ := c.Get("p-001")
	b, _ := c.Get("p-002")

	cmp, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-001", "p-002"}, cmp.ProductIDs)

	rows := map[string][]string{}
	for _, r := range cmp.Rows {
		require.Len(t, r.Values, 2)
		rows[r.Key] = r.Values
	}
	assert.Equal(t, []string{"€129.99", "€89.00"}, rows["price"])
	assert.Equal(t, []string{"-15%", "None"}, rows["discount"])
	assert.Equal(t, []string{"Yes", "No"}, rows["in_stock"])
	assert.Equal(t, []string{"Footwear", "Footwear"}, rows["category"])
	assert.Equal(t, []string{"running, outdoor", "casual, leather"}, rows["tags"])

	_, err = Compare()
	assert.Error(t, err)
	_, err = Compare(a, a, a, a, a)
	assert.ErrorIs(t, err, ErrTooManyCompared)
}

func TestReviewBook(t *testing.T) {
	c, err := LoadSeed()
	require.NoError(t, err)
	book := NewReviewBook(c)
	book.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err = book.Submit("nope", 5, "t", "c")
	assert.ErrorIs(t, err, ErrUnknownProduct)
	_, err = book.Submit("p-001", 0, "t", "c")
	assert.ErrorIs(t, err, ErrInvalidReview)
	_, err = book.Submit("p-001", 4, "  ", "c")
	assert.ErrorIs(t, err, ErrInvalidReview)

	r1, err := book.Submit("p-001", 5, " Great ", "Fits well")
	require.NoError(t, err)
	assert.Equal(t, "Great", r1.Title)
	assert.NotEmpty(t, r1.ID)
	r2, err := book.Submit("p-001", 4, "Good", "A bit narrow")
	require.NoError(t, err)

	list := book.List("p-001")
	require.Len(t, list, 2)
	assert.Equal(t, r2.ID, list[0].ID)

	s := book.Summary("p-001")
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 4.5, s.Average)
	assert.Equal(t, 0, book.Summary("p-002").Count)
}
