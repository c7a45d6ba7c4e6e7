package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/company-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeLoggedIn EventType = "employee_logged_in"
	EventAdminLoggedIn    EventType = "admin_logged_in"
	EventTokenRefreshed   EventType = "token_refreshed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   int64       `json:"id"`
}

// Event represents a domain event emitted by services. Payload is kept as raw
// JSON so events survive a round trip through an external broker.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Actor     Actor           `json:"actor"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEvent builds an event with a fresh id, encoding payload as JSON.
func NewEvent(eventType EventType, actor Actor, at time.Time, payload any) (Event, error) {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: at.UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		evt.Payload = raw
	}
	return evt, nil
}

// DecodePayload unmarshals the payload into dst.
func (e Event) DecodePayload(dst any) error {
	return json.Unmarshal(e.Payload, dst)
}

// LoginPayload is carried by login events.
type LoginPayload struct {
	Email     string    `json:"email"`
	LoginTime time.Time `json:"login_time"`
}
