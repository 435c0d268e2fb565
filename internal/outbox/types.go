package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one outbox row: a committed auction change waiting to be relayed
// to the event stream.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}
