package inventory

import "time"

// Record is the stock counter for one product. Quantity never goes below zero.
type Record struct {
	ProductID int64     `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Adjustment struct {
	ProductID        int64 `json:"product_id"`
	Delta            int   `json:"delta"`
	PreviousQuantity int   `json:"previous_quantity"`
	NewQuantity      int   `json:"new_quantity"`
}

const (
	ReasonRestock = "RESTOCK"
	ReasonManual  = "MANUAL"
)
