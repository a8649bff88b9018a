package redisx

import "time"

const (
	// Maintenance setting cache: maintenance:setting -> JSON of the single row
	KeyMaintenance = "maintenance:setting"

	// Order status cache: order_status:{order_id} -> {"orderStatus":"...","paymentStatus":"..."}
	KeyOrderStatus = "order_status:%s"

	// Gateway payment idempotency fast path: idem:payment:{gateway_order_id} -> order_id
	KeyIdemPayment = "idem:payment:%s"

	// Visitor-log hourly dedup: visit:{user_id}:{YYYY-MM-DDTHH}
	KeyVisitorHour = "visit:%s:%s"

	// Dedup event processing in workers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLMaintenance = 15 * time.Second
	TTLStatusCache = 5 * time.Minute
	TTLIdempotency = 24 * time.Hour
	TTLVisitorHour = time.Hour
	TTLDedup       = 48 * time.Hour
)
