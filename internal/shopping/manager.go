package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/catalog"
	"github.com/ariefcatur/go-realtime-storefront/internal/events"
	"github.com/ariefcatur/go-realtime-storefront/internal/storage"
	"github.com/shopspring/decimal"
)

// ErrNotProvisioned is raised (as a panic value) when a Manager is used
// without having been created by New.
var ErrNotProvisioned = errors.New("shopping: manager used outside its provisioning scope; create it with shopping.New")

// CartLine is a product snapshot taken at add time plus its quantity.
type CartLine struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type FavoriteEntry struct {
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// Persister receives serialized snapshots after every mutation.
// *storage.Syncer satisfies it.
type Persister interface {
	Save(b storage.Bucket, value []byte)
}

// EventSink receives domain events. *events.Publisher satisfies it.
type EventSink interface {
	Publish(ctx context.Context, eventType, key string, payload any)
}

// Manager owns the cart and the favorites of one client. All operations are
// atomic; none of them fails for unknown product ids.
type Manager struct {
	provisioned bool

	persist Persister
	sink    EventSink
	log     *slog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	cart      []CartLine
	favorites []FavoriteEntry
}

type Option func(*Manager)

func WithPersister(p Persister) Option { return func(m *Manager) { m.persist = p } }

func WithEvents(s EventSink) Option { return func(m *Manager) { m.sink = s } }

func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.log = l } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// New returns an empty, provisioned manager.
func New(opts ...Option) *Manager {
	m := &Manager{provisioned: true, log: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) mustProvisioned() {
	if m == nil || !m.provisioned {
		panic(ErrNotProvisioned)
	}
}

// Restore replaces the in-memory state with what svc holds. Unreadable
// buckets restore as empty.
func (m *Manager) Restore(ctx context.Context, svc *storage.Service) {
	m.mustProvisioned()
	cart := storage.Load(ctx, svc, storage.BucketCart, []CartLine{})
	favs := storage.Load(ctx, svc, storage.BucketFavorites, []FavoriteEntry{})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = m.cart[:0]
	seen := map[string]int{}
	for _, l := range cart {
		if l.ID == "" || l.Quantity <= 0 {
			continue
		}
		if i, dup := seen[l.ID]; dup {
			m.cart[i].Quantity += l.Quantity
			continue
		}
		seen[l.ID] = len(m.cart)
		m.cart = append(m.cart, l)
	}
	m.favorites = m.favorites[:0]
	fseen := map[string]bool{}
	for _, f := range favs {
		if f.ProductID == "" || fseen[f.ProductID] {
			continue
		}
		fseen[f.ProductID] = true
		m.favorites = append(m.favorites, f)
	}
	m.log.Info("shopping state restored", "lines", len(m.cart), "favorites", len(m.favorites))
}

// AddToCart merges quantity into the product's line, creating it if needed.
// Stock is not checked. Non-positive quantities are ignored.
func (m *Manager) AddToCart(ctx context.Context, p catalog.Product, quantity int) {
	m.mustProvisioned()
	if quantity <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.lineIndex(p.ID); i >= 0 {
		m.cart[i].Quantity += quantity
	} else {
		m.cart = append(m.cart, CartLine{Product: p, Quantity: quantity})
	}
	m.saveCart()
	m.emit(ctx, events.EventCartItemAdded, p.ID, events.CartItemPayload{
		ProductID: p.ID, Quantity: quantity, Price: p.Price.String(),
	})
}

// RemoveFromCart drops the line for productID; absent ids are a no-op.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) {
	m.mustProvisioned()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(ctx, productID)
}

func (m *Manager) removeLocked(ctx context.Context, productID string) {
	i := m.lineIndex(productID)
	if i < 0 {
		return
	}
	m.cart = append(m.cart[:i], m.cart[i+1:]...)
	m.saveCart()
	m.emit(ctx, events.EventCartItemRemoved, productID, events.CartItemPayload{ProductID: productID})
}

// UpdateCartQuantity sets the line quantity exactly. quantity <= 0 removes
// the line; an absent line is never created.
func (m *Manager) UpdateCartQuantity(ctx context.Context, productID string, quantity int) {
	m.mustProvisioned()
	m.mu.Lock()
	defer m.mu.Unlock()
	if quantity <= 0 {
		m.removeLocked(ctx, productID)
		return
	}
	i := m.lineIndex(productID)
	if i < 0 || m.cart[i].Quantity == quantity {
		return
	}
	m.cart[i].Quantity = quantity
	m.saveCart()
	m.emit(ctx, events.EventCartQuantityUpdated, productID, events.CartItemPayload{
		ProductID: productID, Quantity: quantity,
	})
}

func (m *Manager) ClearCart(ctx context.Context) {
	m.mustProvisioned()
	m.mu.Lock()
	defer m.mu.Unlock()
	payload := events.CartClearedPayload{Lines: len(m.cart), Items: m.countLocked()}
	m.cart = nil
	m.saveCart()
	m.emit(ctx, events.EventCartCleared, "cart", payload)
}

// ToggleFavorite flips membership and reports whether productID is now a
// favorite.
func (m *Manager) ToggleFavorite(ctx context.Context, productID string) bool {
	m.mustProvisioned()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.favorites {
		if f.ProductID == productID {
			m.favorites = append(m.favorites[:i], m.favorites[i+1:]...)
			m.saveFavorites()
			m.emit(ctx, events.EventFavoriteRemoved, productID, events.FavoritePayload{ProductID: productID, At: m.now().UTC()})
			return false
		}
	}
	at := m.now()
	m.favorites = append(m.favorites, FavoriteEntry{ProductID: productID, AddedAt: at})
	m.saveFavorites()
	m.emit(ctx, events.EventFavoriteAdded, productID, events.FavoritePayload{ProductID: productID, At: at.UTC()})
	return true
}

func (m *Manager) IsFavorite(productID string) bool {
	m.mustProvisioned()
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.favorites {
		if f.ProductID == productID {
			return true
		}
	}
	return false
}

// Cart returns a copy of the lines in insertion order.
func (m *Manager) Cart() []CartLine {
	m.mustProvisioned()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CartLine, len(m.cart))
	copy(out, m.cart)
	return out
}

func (m *Manager) Favorites() []FavoriteEntry {
	m.mustProvisioned()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FavoriteEntry, len(m.favorites))
	copy(out, m.favorites)
	return out
}

// CartTotal sums price*quantity using the price captured when each line was
// first added.
func (m *Manager) CartTotal() decimal.Decimal {
	m.mustProvisioned()
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, l := range m.cart {
		total = total.Add(l.Subtotal())
	}
	return total
}

// CartCount is the number of items, not lines.
func (m *Manager) CartCount() int {
	m.mustProvisioned()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countLocked()
}

func (m *Manager) countLocked() int {
	n := 0
	for _, l := range m.cart {
		n += l.Quantity
	}
	return n
}

func (m *Manager) lineIndex(productID string) int {
	for i, l := range m.cart {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// saveCart and saveFavorites run under m.mu so snapshots reach the
// persister in mutation order.
func (m *Manager) saveCart() {
	if m.persist == nil {
		return
	}
	lines := m.cart
	if lines == nil {
		lines = []CartLine{}
	}
	m.snapshot(storage.BucketCart, lines)
}

func (m *Manager) saveFavorites() {
	if m.persist == nil {
		return
	}
	favs := m.favorites
	if favs == nil {
		favs = []FavoriteEntry{}
	}
	m.snapshot(storage.BucketFavorites, favs)
}

func (m *Manager) snapshot(b storage.Bucket, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		m.log.Error("encode snapshot", "bucket", b, "err", err)
		return
	}
	m.persist.Save(b, raw)
}

func (m *Manager) emit(ctx context.Context, eventType, key string, payload any) {
	if m.sink == nil {
		return
	}
	m.sink.Publish(ctx, eventType, key, payload)
}
