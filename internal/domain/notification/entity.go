package notification

import "time"

// Event names a domain occurrence that may be pushed to external destinations.
type Event string

const (
	EventShiftStatusChanged Event = "shift_status_changed"
	EventShiftCreated       Event = "shift_created"
	EventClockIn            Event = "attendance_clock_in"
	EventClockOut           Event = "attendance_clock_out"
	EventReportSubmitted    Event = "report_submitted"
	EventReportApproved     Event = "report_approved"
)

func AllEvents() []Event {
	return []Event{
		EventShiftStatusChanged,
		EventShiftCreated,
		EventClockIn,
		EventClockOut,
		EventReportSubmitted,
		EventReportApproved,
	}
}

func (e Event) Valid() bool {
	for _, known := range AllEvents() {
		if e == known {
			return true
		}
	}
	return false
}

type DestinationKind string

const (
	DestinationSlack   DestinationKind = "slack"
	DestinationWebhook DestinationKind = "webhook"
	DestinationEmail   DestinationKind = "email"
)

func (d DestinationKind) Valid() bool {
	switch d {
	case DestinationSlack, DestinationWebhook, DestinationEmail:
		return true
	}
	return false
}

// Message is one event occurrence, rendered once and fanned out to every
// destination routed for its event.
type Message struct {
	ID          string                 `json:"id"`
	Event       Event                  `json:"event"`
	Subject     string                 `json:"subject"`
	Text        string                 `json:"text"`
	Data        map[string]interface{} `json:"data,omitempty"`
	RecipientID string                 `json:"-"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// Delivery describes where a message went.
type Delivery struct {
	Target     string
	StatusCode int
}

// DeliveryLog records one attempt. Failed deliveries are never retried.
type DeliveryLog struct {
	ID          string
	Event       Event
	Destination DestinationKind
	Target      string
	Success     bool
	StatusCode  *int
	Error       *string
	Payload     map[string]interface{}
	CreatedAt   time.Time
}
