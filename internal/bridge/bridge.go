// Package bridge is the one-directional notification channel between
// the query core's surroundings and a UI surface. The core never
// imports it; producers push events, a single consumer drains them.
package bridge

import "time"

// Kind discriminates notification events.
type Kind string

const (
	QrImage      Kind = "qr_image"
	StatusChange Kind = "status_change"
	LogLine      Kind = "log_line"
)

// Event is one UI notification. Text carries status and log payloads;
// Image carries QR PNG bytes and is nil otherwise.
type Event struct {
	Kind  Kind
	Text  string
	Image []byte
	At    time.Time
}

// Notifier fans events to one consumer over a bounded channel.
// Publishing never blocks the producer: an event that does not fit is
// dropped, because a stalled UI must not stall a query in flight.
type Notifier struct {
	events chan Event
}

func New(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &Notifier{events: make(chan Event, buffer)}
}

// Events is the consumer side. It is closed by Close.
func (n *Notifier) Events() <-chan Event { return n.events }

// Publish enqueues ev without blocking. It reports whether the event
// was accepted.
func (n *Notifier) Publish(ev Event) bool {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case n.events <- ev:
		return true
	default:
		return false
	}
}

// Status publishes a StatusChange event.
func (n *Notifier) Status(text string) bool {
	return n.Publish(Event{Kind: StatusChange, Text: text})
}

// Log publishes a LogLine event.
func (n *Notifier) Log(text string) bool {
	return n.Publish(Event{Kind: LogLine, Text: text})
}

// Qr publishes a QrImage event carrying encoded image bytes.
func (n *Notifier) Qr(image []byte) bool {
	return n.Publish(Event{Kind: QrImage, Image: image})
}

// Close ends the stream. Publish must not be called after Close.
func (n *Notifier) Close() { close(n.events) }
