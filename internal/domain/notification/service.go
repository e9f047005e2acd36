package notification

import "context"

// Dispatcher delivers messages in the background. Dispatch never fails the
// caller; delivery problems are only logged.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message)
	Close()
}

// Sender delivers a message to one kind of destination.
type Sender interface {
	Kind() DestinationKind
	Send(ctx context.Context, msg Message) (Delivery, error)
}

type DeliveryLogService interface {
	List(ctx context.Context, filter DeliveryLogFilter) (ListDeliveryLogResponse, error)
}
