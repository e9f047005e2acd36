package notification

import (
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type DeliveryLogFilter struct {
	Event       *string `json:"event,omitempty"`
	Destination *string `json:"destination,omitempty"`
	Success     *bool   `json:"success,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *DeliveryLogFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Event != nil && !Event(*f.Event).Valid() {
		errs.Add("event", "unknown event")
	}
	if f.Destination != nil && !DestinationKind(*f.Destination).Valid() {
		errs.Add("destination", "destination must be one of: slack, webhook, email")
	}

	return errs.Err()
}

type DeliveryLogResponse struct {
	ID          string                 `json:"id"`
	Event       string                 `json:"event"`
	Destination string                 `json:"destination"`
	Target      string                 `json:"target"`
	Success     bool                   `json:"success"`
	StatusCode  *int                   `json:"status_code,omitempty"`
	Error       *string                `json:"error,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ListDeliveryLogResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Logs       []DeliveryLogResponse `json:"logs"`
}

// SSETokenResponse carries the short-lived token used to open an event stream.
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
