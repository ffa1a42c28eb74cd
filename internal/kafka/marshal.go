package kafka

import (
	"encoding/json"
	"fmt"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/segmentio/kafka-go"
	"strconv"
)

// Publisher is satisfied by *Producer; services depend on this so tests can capture messages.
type Publisher interface {
	Publish(key, value []byte, headers ...kafka.Header)
}

func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func DecodeEnvelope(b []byte) (events.Envelope, error) {
	var env events.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

// UnwrapPayload decodes the event specific payload.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

// Emit publishes an envelope with the standard event headers. A nil publisher is a no-op.
func Emit(p Publisher, key []byte, ev events.Envelope) {
	if p == nil {
		return
	}
	p.Publish(key, MustMarshal(ev),
		kafka.Header{Key: "x-event-type", Value: []byte(ev.EventType)},
		kafka.Header{Key: "x-event-version", Value: []byte(strconv.Itoa(ev.EventVersion))},
	)
}
