package cart

import (
	"errors"
	"testing"
)

func TestAdd_ClampGrid(t *testing.T) {
	for stock := 0; stock <= 6; stock++ {
		for existing := 0; existing <= stock; existing++ {
			for delta := 1; delta <= 8; delta++ {
				out, err := Add(existing, delta, stock)
				want := min(existing+delta, stock)

				if want <= existing {
					if err == nil {
						t.Fatalf("Add(%d,%d,%d) accepted a no-op add", existing, delta, stock)
					}
					continue
				}
				if err != nil {
					t.Fatalf("Add(%d,%d,%d) unexpected error: %v", existing, delta, stock, err)
				}
				if out.Line.Quantity != want || out.Line.Quantity < 1 || out.Line.Quantity > stock {
					t.Fatalf("Add(%d,%d,%d) = %d, want %d", existing, delta, stock, out.Line.Quantity, want)
				}
				if out.Clamped != (existing+delta > stock) {
					t.Fatalf("Add(%d,%d,%d) clamped=%v", existing, delta, stock, out.Clamped)
				}
			}
		}
	}
}

func TestAdd_OversellAttemptIsClamped(t *testing.T) {
	out, err := Add(0, 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Line.Quantity != 2 || !out.Clamped {
		t.Errorf("got %+v, want quantity 2 clamped", out)
	}
}

func TestAdd_Rejects(t *testing.T) {
	cases := []struct {
		name                   string
		existing, delta, limit int
		want                   error
	}{
		{"zero delta", 0, 0, 5, ErrInvalidQuantity},
		{"negative delta", 2, -1, 5, ErrInvalidQuantity},
		{"no inventory", 0, 1, 0, ErrOutOfStock},
		{"already at stock", 3, 2, 3, ErrInsufficientStock},
		{"stale line", 5, 1, 3, ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Add(tc.existing, tc.delta, tc.limit); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSet_Bounds(t *testing.T) {
	cases := []struct {
		target, limit int
		want          error
	}{
		{1, 3, nil},
		{3, 3, nil},
		{0, 3, ErrBelowMinimum},
		{4, 3, ErrInsufficientStock},
		{1, 0, ErrOutOfStock},
	}
	for _, tc := range cases {
		got, err := Set(tc.target, tc.limit)
		if !errors.Is(err, tc.want) {
			t.Errorf("Set(%d,%d) err = %v, want %v", tc.target, tc.limit, err, tc.want)
		}
		if tc.want == nil && got != tc.target {
			t.Errorf("Set(%d,%d) = %d", tc.target, tc.limit, got)
		}
	}
}

func TestMaxQuantity(t *testing.T) {
	stock := map[int64]int{1: 4, 2: 0}
	if got := MaxQuantity(stock, 1); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
	if got := MaxQuantity(stock, 3); got != 0 {
		t.Errorf("missing product: got %d, want 0", got)
	}
}

func TestShortfallError_IsInsufficientStock(t *testing.T) {
	var err error = &ShortfallError{Shortfalls: []Shortfall{{ProductID: 1, Required: 3, Available: 1}}}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Error("shortfall should match ErrInsufficientStock")
	}
}
