package inventory

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"golang.org/x/sync/singleflight"
	"log"
	"strconv"
)

var (
	ErrNotFound          = errors.New("inventory not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidProduct    = errors.New("product id must be a positive integer")
	ErrInvalidDelta      = errors.New("quantity must be a non-zero integer")
)

type Store interface {
	Get(ctx context.Context, productID int64) (Record, error)
	Quantities(ctx context.Context, productIDs []int64) (map[int64]int, error)
	Adjust(ctx context.Context, productID int64, delta int) (previous, next int, err error)
}

// Cache holds short-lived stock snapshots. Reads through it may be stale.
type Cache interface {
	GetStock(ctx context.Context, productID int64) (qty int, ok bool, err error)
	SetStock(ctx context.Context, productID int64, qty int) error
	DropStock(ctx context.Context, productIDs ...int64) error
}

type Service struct {
	Store       Store
	Cache       Cache            // optional
	Events      kafkax.Publisher // optional, publishes inventory.adjusted
	Dedup       Deduper          // optional, used by the restock consumer
	ServiceName string

	group singleflight.Group
}

// Increment adds delta to the product's counter and reports the quantities around the change.
func (s *Service) Increment(ctx context.Context, productID int64, delta int, reason string) (Adjustment, error) {
	if productID <= 0 {
		return Adjustment{}, ErrInvalidProduct
	}
	if delta == 0 {
		return Adjustment{}, ErrInvalidDelta
	}

	prev, next, err := s.Store.Adjust(ctx, productID, delta)
	if err != nil {
		return Adjustment{}, err
	}
	adj := Adjustment{ProductID: productID, Delta: delta, PreviousQuantity: prev, NewQuantity: next}

	if s.Cache != nil {
		if err := s.Cache.SetStock(ctx, productID, next); err != nil {
			log.Printf("inventory: cache set product=%d: %v", productID, err)
		}
	}
	ev := events.New(events.EventInventoryAdjusted, s.ServiceName, strconv.FormatInt(productID, 10), "",
		kafkax.MustMarshal(events.InventoryAdjustedPayload{
			ProductID:        productID,
			Delta:            delta,
			PreviousQuantity: prev,
			NewQuantity:      next,
			Reason:           reason,
		}))
	kafkax.Emit(s.Events, events.ProductKey(productID), ev)
	return adj, nil
}

type snapshot struct {
	qty   int
	found bool
}

// Quantity returns a snapshot of the product's stock. found is false when no inventory row exists.
func (s *Service) Quantity(ctx context.Context, productID int64) (qty int, found bool, err error) {
	if s.Cache != nil {
		if q, ok, err := s.Cache.GetStock(ctx, productID); err == nil && ok {
			return q, true, nil
		} else if err != nil {
			log.Printf("inventory: cache get product=%d: %v", productID, err)
		}
	}

	// concurrent misses for the same product share one store read; it must not die with
	// whichever caller happened to start it
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatInt(productID, 10), func() (any, error) {
		rec, err := s.Store.Get(shared, productID)
		if errors.Is(err, ErrNotFound) {
			return snapshot{}, nil
		}
		if err != nil {
			return nil, err
		}
		s.remember(shared, rec.ProductID, rec.Quantity)
		return snapshot{qty: rec.Quantity, found: true}, nil
	})
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, false, res.Err
		}
		snap := res.Val.(snapshot)
		return snap.qty, snap.found, nil
	}
}

// Quantities is the batch form of Quantity used by cart views. Missing products are absent.
func (s *Service) Quantities(ctx context.Context, productIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(productIDs))
	misses := make([]int64, 0, len(productIDs))
	for _, id := range productIDs {
		if s.Cache != nil {
			q, ok, err := s.Cache.GetStock(ctx, id)
			if err != nil {
				log.Printf("inventory: cache get product=%d: %v", id, err)
			} else if ok {
				out[id] = q
				continue
			}
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := s.Store.Quantities(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("inventory snapshot: %w", err)
	}
	for id, q := range fresh {
		out[id] = q
		s.remember(ctx, id, q)
	}
	return out, nil
}

// Forget drops cached snapshots after stock changed outside Increment (checkout).
func (s *Service) Forget(ctx context.Context, productIDs ...int64) {
	if s.Cache == nil || len(productIDs) == 0 {
		return
	}
	if err := s.Cache.DropStock(ctx, productIDs...); err != nil {
		log.Printf("inventory: cache drop %v: %v", productIDs, err)
	}
}

func (s *Service) remember(ctx context.Context, productID int64, qty int) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.SetStock(ctx, productID, qty); err != nil {
		log.Printf("inventory: cache set product=%d: %v", productID, err)
	}
}
