// Package audit consumes order lifecycle events into the order_events
// trail and keeps the order-status cache warm.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"

	kafkax "github.com/shoppee/shoppee-backend/internal/kafka"
	"github.com/shoppee/shoppee-backend/internal/orders"
	"github.com/shoppee/shoppee-backend/internal/redisx"
)

type Service struct {
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Service string // consumer name used in the dedup key
}

// Handle is the Kafka consumer callback. Returning nil commits the offset,
// so every failure path before the audit insert must return the error.
func (s *Service) Handle(ctx context.Context, m kafka.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// poison message: log and commit, redelivery cannot fix it
		log.Printf("audit: dropping undecodable message at offset %d: %v", m.Offset, err)
		return nil
	}

	if seen, err := s.alreadyProcessed(ctx, env.EventID); err != nil {
		return err
	} else if seen {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderPlaced:
		payload, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
		if err != nil {
			log.Printf("audit: dropping %s %s: %v", env.EventType, env.EventID, err)
			return nil
		}
		if err := s.record(ctx, &env, payload.OrderID); err != nil {
			return err
		}
		s.warmStatusCache(ctx, payload.OrderID, payload.OrderStatus, payload.PaymentStatus)

	case orders.EventOrderStatusChanged:
		payload, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			log.Printf("audit: dropping %s %s: %v", env.EventType, env.EventID, err)
			return nil
		}
		if err := s.record(ctx, &env, payload.OrderID); err != nil {
			return err
		}
		s.warmStatusCache(ctx, payload.OrderID, payload.OrderStatus, payload.PaymentStatus)

	default:
		log.Printf("audit: ignoring unknown event type %q", env.EventType)
		return nil
	}

	return s.markProcessed(ctx, env.EventID)
}

func (s *Service) record(ctx context.Context, env *orders.Envelope, orderID string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO order_events (event_id, order_id, event_type, event_version, producer, occurred_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
	`, env.EventID, orderID, env.EventType, env.EventVersion, env.Producer, env.OccurredAt, []byte(env.Payload))
	return err
}

func (s *Service) warmStatusCache(ctx context.Context, orderID string, os orders.OrderStatus, ps orders.PaymentStatus) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	val, _ := json.Marshal(map[string]string{
		"orderStatus":   string(os),
		"paymentStatus": string(ps),
	})
	if err := s.Cache.Set(ctx, key, val, redisx.TTLStatusCache).Err(); err != nil {
		log.Printf("audit: status cache refresh failed for %s: %v", orderID, err)
	}
}

func (s *Service) alreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyDedup, s.Service, eventID)
	seen, err := redisx.Exists(ctx, s.Cache, key)
	if err != nil {
		// cache miss on error; the audit insert is idempotent anyway
		log.Printf("audit: dedup check failed for %s: %v", eventID, err)
		return false, nil
	}
	return seen, nil
}

func (s *Service) markProcessed(ctx context.Context, eventID string) error {
	key := fmt.Sprintf(redisx.KeyDedup, s.Service, eventID)
	if err := s.Cache.Set(ctx, key, 1, redisx.TTLDedup).Err(); err != nil {
		log.Printf("audit: dedup mark failed for %s: %v", eventID, err)
	}
	return nil
}
