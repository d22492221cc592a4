package redisx

import "time"

const (
	// Persisted client state: storefront:{namespace}:{bucket} -> JSON document
	KeyBucket = "storefront:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Product popularity, sorted sets scored by activity.
	KeyPopularityCart      = "popularity:cart"
	KeyPopularityFavorites = "popularity:favorites"
)

var (
	TTLDedup = 48 * time.Hour
)
