package events

import (
	"encoding/json"
	"time"
)

// Envelope is the wire format published to the event stream and fanned out to
// WebSocket clients. Data holds one of the payload structs in this package,
// keyed by Type.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}
