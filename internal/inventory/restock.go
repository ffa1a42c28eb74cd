package inventory

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"log"
)

// Deduper remembers processed event ids so redelivered messages are applied once.
type Deduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

// HandleRestockRequested is installed as the restock consumer handler.
// Malformed or unappliable requests are logged and committed; storage failures are returned
// and the consumer retries the same message before moving past it.
func (s *Service) HandleRestockRequested(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.DecodeEnvelope(m.Value)
	if err != nil {
		log.Printf("restock: skip offset=%d: %v", m.Offset, err)
		return nil
	}
	if env.EventType != events.EventRestockRequested {
		return nil
	}

	if s.Dedup != nil {
		ok, err := s.Dedup.Claim(ctx, env.EventID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[events.RestockRequestedPayload](env.Payload)
	if err != nil {
		log.Printf("restock: skip event=%s: %v", env.EventID, err)
		return nil
	}

	adj, err := s.Increment(ctx, p.ProductID, p.Quantity, ReasonRestock)
	switch {
	case err == nil:
		log.Printf("restock: product=%d %d -> %d (event=%s)", adj.ProductID, adj.PreviousQuantity, adj.NewQuantity, env.EventID)
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidProduct), errors.Is(err, ErrInvalidDelta):
		log.Printf("restock: reject event=%s product=%d: %v", env.EventID, p.ProductID, err)
		return nil
	default:
		// let a redelivery retry it
		if s.Dedup != nil {
			if rerr := s.Dedup.Release(ctx, env.EventID); rerr != nil {
				log.Printf("restock: release event=%s: %v", env.EventID, rerr)
			}
		}
		return err
	}
}
