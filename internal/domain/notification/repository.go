package notification

import "context"

type DeliveryLogRepository interface {
	Create(ctx context.Context, log DeliveryLog) error
	List(ctx context.Context, filter DeliveryLogFilter) ([]DeliveryLog, int64, error)
}
