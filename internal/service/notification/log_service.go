package notification

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/pagination"
)

type DeliveryLogServiceImpl struct {
	notification.DeliveryLogRepository
}

func NewDeliveryLogService(repo notification.DeliveryLogRepository) notification.DeliveryLogService {
	return &DeliveryLogServiceImpl{DeliveryLogRepository: repo}
}

// List implements notification.DeliveryLogService.
func (s *DeliveryLogServiceImpl) List(ctx context.Context, filter notification.DeliveryLogFilter) (notification.ListDeliveryLogResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return notification.ListDeliveryLogResponse{}, err
	}
	if !actor.IsAdmin() {
		return notification.ListDeliveryLogResponse{}, notification.ErrLogViewDenied
	}
	if err := filter.Validate(); err != nil {
		return notification.ListDeliveryLogResponse{}, err
	}

	logs, total, err := s.DeliveryLogRepository.List(ctx, filter)
	if err != nil {
		return notification.ListDeliveryLogResponse{}, fmt.Errorf("failed to list delivery logs: %w", err)
	}

	responses := make([]notification.DeliveryLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, notification.DeliveryLogResponse{
			ID:          l.ID,
			Event:       string(l.Event),
			Destination: string(l.Destination),
			Target:      l.Target,
			Success:     l.Success,
			StatusCode:  l.StatusCode,
			Error:       l.Error,
			Payload:     l.Payload,
			CreatedAt:   l.CreatedAt,
		})
	}

	totalPages, _ := pagination.Summarize(total, filter.Page, filter.Limit)
	return notification.ListDeliveryLogResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Logs:       responses,
	}, nil
}
