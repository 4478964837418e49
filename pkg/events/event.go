package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// Header keys shared by all roomly services.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"

	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
)

// BookingEvent is the payload published on every booking state change.
// Dates are calendar days (UTC midnight).
type BookingEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	RoomID    string    `json:"room_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	Occurred  time.Time `json:"occurred_at"`
}

// Message is the transport envelope. Key is the booking ID so all events for
// one booking land on the same partition, in order.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

func NewBookingMessage(eventType, source string, event BookingEvent) (Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return Message{}, err
	}

	now := time.Now()
	return Message{
		Key:       event.BookingID,
		Value:     value,
		Timestamp: now,
		Headers: map[string]string{
			HeaderEventID:   uuid.New().String(),
			HeaderEventType: eventType,
			HeaderSource:    source,
			HeaderTimestamp: now.Format(time.RFC3339),
		},
	}, nil
}

func (m *Message) DecodeValue(v any) error {
	return json.Unmarshal(m.Value, v)
}

func (m *Message) EventType() string {
	return m.Headers[HeaderEventType]
}

func (m *Message) EventID() string {
	return m.Headers[HeaderEventID]
}

func (m *Message) RetryCount() int {
	var count int
	if s, ok := m.Headers[HeaderRetryCount]; ok {
		_ = json.Unmarshal([]byte(s), &count)
	}
	return count
}

// IncrementRetryCount bumps the retry header after a failed handler attempt.
// The count travels with the message into the DLQ.
func (m *Message) IncrementRetryCount() {
	raw, _ := json.Marshal(m.RetryCount() + 1)
	m.setHeader(HeaderRetryCount, string(raw))
}

// setHeader allocates the header map lazily so a zero-value Message is safe
// to annotate.
func (m *Message) setHeader(key, value string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[key] = value
}

// MessageHandler processes one consumed message. A nil return commits the
// offset; an error triggers the retry/DLQ flow.
type MessageHandler func(ctx context.Context, msg Message) error
