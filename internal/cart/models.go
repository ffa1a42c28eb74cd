package cart

import "time"

// Line is one product in a user's cart. Quantity is at least 1.
type Line struct {
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LineView is a line plus the stock it was checked against.
// Stale lines hold more than is stocked now; they are reported, never truncated.
type LineView struct {
	Line
	MaxQuantity int  `json:"max_quantity"`
	OutOfStock  bool `json:"out_of_stock"`
	Stale       bool `json:"stale"`
}

type AddOutcome struct {
	Line    Line `json:"line"`
	Clamped bool `json:"insufficient_stock"`
}

type Shortfall struct {
	ProductID int64 `json:"product_id"`
	Required  int   `json:"required"`
	Available int   `json:"available"`
}

type CheckoutResult struct {
	CheckoutID string `json:"checkout_id"`
	Lines      []Line `json:"lines"`
}
