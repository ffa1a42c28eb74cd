package redisx

import "time"

const (
	// Stock snapshot: inventory:qty:{product_id} -> quantity
	KeyStock = "inventory:qty:%d"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStockCache = 30 * time.Second
	TTLDedup      = 48 * time.Hour
)
