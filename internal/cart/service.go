package cart

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/google/uuid"
	"log"
)

type Store interface {
	List(ctx context.Context, userID string) ([]Line, error)
	Get(ctx context.Context, userID string, productID int64) (Line, error)
	Upsert(ctx context.Context, userID string, productID int64, qty int) (Line, error)
	Delete(ctx context.Context, userID string, productID int64) error
	// Checkout decrements stock for every line and empties the cart in one transaction.
	// When any line is short nothing changes and the shortfalls are returned.
	Checkout(ctx context.Context, userID string) ([]Line, []Shortfall, error)
}

// Stock is the read side of inventory used to bound line quantities.
type Stock interface {
	Quantities(ctx context.Context, productIDs []int64) (map[int64]int, error)
	Forget(ctx context.Context, productIDs ...int64)
}

type Service struct {
	Store       Store
	Stock       Stock
	Events      kafkax.Publisher // optional, publishes cart.checked_out
	ServiceName string
}

func (s *Service) View(ctx context.Context, userID string) ([]LineView, error) {
	lines, err := s.Store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	stock, err := s.Stock.Quantities(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]LineView, len(lines))
	for i, l := range lines {
		limit := MaxQuantity(stock, l.ProductID)
		out[i] = LineView{Line: l, MaxQuantity: limit, OutOfStock: limit == 0, Stale: l.Quantity > limit}
	}
	return out, nil
}

func (s *Service) Add(ctx context.Context, userID string, productID int64, delta int) (AddOutcome, error) {
	if productID <= 0 {
		return AddOutcome{}, ErrInvalidProduct
	}
	existing, err := s.quantity(ctx, userID, productID)
	if err != nil {
		return AddOutcome{}, err
	}
	limit, err := s.stockLimit(ctx, productID)
	if err != nil {
		return AddOutcome{}, err
	}
	out, err := Add(existing, delta, limit)
	if err != nil {
		return AddOutcome{}, err
	}
	line, err := s.Store.Upsert(ctx, userID, productID, out.Line.Quantity)
	if err != nil {
		return AddOutcome{}, err
	}
	out.Line = line
	return out, nil
}

func (s *Service) SetQuantity(ctx context.Context, userID string, productID int64, qty int) (Line, error) {
	if _, err := s.Store.Get(ctx, userID, productID); err != nil {
		return Line{}, err
	}
	limit, err := s.stockLimit(ctx, productID)
	if err != nil {
		return Line{}, err
	}
	qty, err = Set(qty, limit)
	if err != nil {
		return Line{}, err
	}
	return s.Store.Upsert(ctx, userID, productID, qty)
}

func (s *Service) Increment(ctx context.Context, userID string, productID int64) (Line, error) {
	line, err := s.Store.Get(ctx, userID, productID)
	if err != nil {
		return Line{}, err
	}
	limit, err := s.stockLimit(ctx, productID)
	if err != nil {
		return Line{}, err
	}
	qty, err := Set(line.Quantity+1, limit)
	if err != nil {
		return Line{}, err
	}
	return s.Store.Upsert(ctx, userID, productID, qty)
}

// Decrement only enforces the lower bound so stale lines can be walked down.
func (s *Service) Decrement(ctx context.Context, userID string, productID int64) (Line, error) {
	line, err := s.Store.Get(ctx, userID, productID)
	if err != nil {
		return Line{}, err
	}
	if line.Quantity-1 < 1 {
		return Line{}, ErrBelowMinimum
	}
	return s.Store.Upsert(ctx, userID, productID, line.Quantity-1)
}

func (s *Service) Remove(ctx context.Context, userID string, productID int64) error {
	return s.Store.Delete(ctx, userID, productID)
}

func (s *Service) Checkout(ctx context.Context, userID string) (CheckoutResult, error) {
	lines, shortfalls, err := s.Store.Checkout(ctx, userID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if len(shortfalls) > 0 {
		return CheckoutResult{}, &ShortfallError{Shortfalls: shortfalls}
	}

	res := CheckoutResult{CheckoutID: uuid.NewString(), Lines: lines}
	ids := make([]int64, len(lines))
	evLines := make([]events.CheckoutLine, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
		evLines[i] = events.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	s.Stock.Forget(ctx, ids...)

	ev := events.New(events.EventCartCheckedOut, s.ServiceName, res.CheckoutID, "",
		kafkax.MustMarshal(events.CartCheckedOutPayload{CheckoutID: res.CheckoutID, UserID: userID, Lines: evLines}))
	kafkax.Emit(s.Events, events.CheckoutKey(res.CheckoutID), ev)
	log.Printf("checkout %s: user=%s lines=%d", res.CheckoutID, userID, len(lines))
	return res, nil
}

func (s *Service) quantity(ctx context.Context, userID string, productID int64) (int, error) {
	line, err := s.Store.Get(ctx, userID, productID)
	if errors.Is(err, ErrLineNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return line.Quantity, nil
}

func (s *Service) stockLimit(ctx context.Context, productID int64) (int, error) {
	stock, err := s.Stock.Quantities(ctx, []int64{productID})
	if err != nil {
		return 0, err
	}
	return MaxQuantity(stock, productID), nil
}
