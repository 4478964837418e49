package notifier

import (
	"context"
	"fmt"
	"roomly/pkg/dateutil"
	"roomly/pkg/events"
	"roomly/pkg/logger"
)

// Notifier consumes booking lifecycle events and delivers user-facing
// notifications. Delivery is a log line for now; the handler shape stays the
// same when a mail or push provider is plugged in.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) Handle(ctx context.Context, msg events.Message) error {
	eventType := msg.EventType()

	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}

	switch eventType {
	case events.TypeBookingConfirmed:
		n.notify(event, "Your booking is confirmed")
	case events.TypeBookingCancelled:
		n.notify(event, "Your booking has been cancelled")
	default:
		// Unknown types are acknowledged, not retried; a new producer
		// version must not wedge an old consumer.
		n.log.Warn("Ignoring unknown event type", "event_type", eventType, "event_id", msg.EventID())
	}

	return nil
}

func (n *Notifier) notify(event events.BookingEvent, text string) {
	n.log.Info("Notification sent",
		"user_id", event.UserID,
		"booking_id", event.BookingID,
		"room_id", event.RoomID,
		"start_date", dateutil.Format(event.StartDate),
		"end_date", dateutil.Format(event.EndDate),
		"quantity", event.Quantity,
		"text", text,
	)
}
