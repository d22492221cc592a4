package catalog

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidReview = errors.New("invalid review")

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"` // 1..5
	Title     string    `json:"title"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewSummary struct {
	ProductID string  `json:"product_id"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

// ReviewBook keeps the reviews submitted during this process lifetime.
type ReviewBook struct {
	catalog *Catalog
	now     func() time.Time

	mu      sync.RWMutex
	reviews map[string][]Review
}

func NewReviewBook(c *Catalog) *ReviewBook {
	return &ReviewBook{catalog: c, now: time.Now, reviews: map[string][]Review{}}
}

// Submit stores a review. Rating must be 1..5 and title and comment must be
// non-blank.
func (b *ReviewBook) Submit(productID string, rating int, title, comment string) (Review, error) {
	if _, ok := b.catalog.Get(productID); !ok {
		return Review{}, ErrUnknownProduct
	}
	title, comment = strings.TrimSpace(title), strings.TrimSpace(comment)
	if rating < 1 || rating > 5 || title == "" || comment == "" {
		return Review{}, ErrInvalidReview
	}
	r := Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		Rating:    rating,
		Title:     title,
		Comment:   comment,
		CreatedAt: b.now().UTC(),
	}
	b.mu.Lock()
	b.reviews[productID] = append(b.reviews[productID], r)
	b.mu.Unlock()
	return r, nil
}

// List returns the reviews of a product, newest first.
func (b *ReviewBook) List(productID string) []Review {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rs := b.reviews[productID]
	out := make([]Review, len(rs))
	for i, r := range rs {
		out[len(rs)-1-i] = r
	}
	return out
}

func (b *ReviewBook) Summary(productID string) ReviewSummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := ReviewSummary{ProductID: productID, Count: len(b.reviews[productID])}
	if s.Count == 0 {
		return s
	}
	sum := 0
	for _, r := range b.reviews[productID] {
		sum += r.Rating
	}
	s.Average = math.Round(float64(sum)/float64(s.Count)*10) / 10
	return s
}
