package events

import (
	"encoding/json"
	"time"
)

const (
	EventCartItemAdded       = "CartItemAdded"
	EventCartItemRemoved     = "CartItemRemoved"
	EventCartQuantityUpdated = "CartQuantityUpdated"
	EventCartCleared         = "CartCleared"
	EventFavoriteAdded       = "FavoriteAdded"
	EventFavoriteRemoved     = "FavoriteRemoved"
)

const Version = 1

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g. "storefront"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually the product id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type CartItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"` // added amount, or the new quantity on update
	Price     string `json:"price,omitempty"`
}

type CartClearedPayload struct {
	Lines int `json:"lines"`
	Items int `json:"items"`
}

type FavoritePayload struct {
	ProductID string    `json:"product_id"`
	At        time.Time `json:"at"`
}
