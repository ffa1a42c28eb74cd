package events

import (
	"encoding/json"
	"github.com/google/uuid"
	"strconv"
	"time"
)

const (
	EventInventoryAdjusted = "InventoryAdjusted"
	EventRestockRequested  = "RestockRequested"
	EventCartCheckedOut    = "CartCheckedOut"
)

// Envelope v1. Payload is event specific.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type InventoryAdjustedPayload struct {
	ProductID        int64  `json:"product_id"`
	Delta            int    `json:"delta"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Reason           string `json:"reason"` // RESTOCK | CHECKOUT | MANUAL
}

type RestockRequestedPayload struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

type CheckoutLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CartCheckedOutPayload struct {
	CheckoutID string         `json:"checkout_id"`
	UserID     string         `json:"user_id"`
	Lines      []CheckoutLine `json:"lines"`
}

func New(eventType, producer, correlationID, traceID string, payload []byte) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

// ProductKey keeps every event for one product on the same partition.
func ProductKey(productID int64) []byte { return []byte(strconv.FormatInt(productID, 10)) }

func CheckoutKey(checkoutID string) []byte { return []byte(checkoutID) }
