package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidProduct    = errors.New("product id must be a positive integer")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrBelowMinimum      = errors.New("quantity cannot go below 1")
	ErrLineNotFound      = errors.New("cart line not found")
	ErrEmptyCart         = errors.New("cart is empty")
)

// MaxQuantity is the most a line may hold for a product. A product with no
// inventory row is treated as having nothing in stock.
func MaxQuantity(stock map[int64]int, productID int64) int {
	q, ok := stock[productID]
	if !ok || q < 0 {
		return 0
	}
	return q
}

// Add folds delta into an existing line quantity (0 when there is no line),
// clamping to limit. A partial add is applied with Clamped set.
func Add(existing, delta, limit int) (AddOutcome, error) {
	if delta < 1 {
		return AddOutcome{}, ErrInvalidQuantity
	}
	if limit <= 0 {
		return AddOutcome{}, ErrOutOfStock
	}
	want := existing + delta
	got := min(want, limit)
	if got <= existing {
		return AddOutcome{}, ErrInsufficientStock
	}
	return AddOutcome{Line: Line{Quantity: got}, Clamped: got < want}, nil
}

// Set validates an explicit target quantity against [1, limit].
func Set(target, limit int) (int, error) {
	if target < 1 {
		return 0, ErrBelowMinimum
	}
	if limit <= 0 {
		return 0, ErrOutOfStock
	}
	if target > limit {
		return 0, fmt.Errorf("%w: only %d available", ErrInsufficientStock, limit)
	}
	return target, nil
}

// ShortfallError lists every line checkout could not cover.
type ShortfallError struct {
	Shortfalls []Shortfall
}

func (e *ShortfallError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shortfalls))
}

func (e *ShortfallError) Unwrap() error { return ErrInsufficientStock }
