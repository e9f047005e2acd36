package notification

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

var (
	ErrUnknownEvent          = errors.New("unknown notification event")
	ErrUnknownDestination    = errors.New("unknown notification destination")
	ErrDeliveryFailed        = errors.New("notification delivery failed")
	ErrDestinationNotEnabled = errors.New("destination is routed but not configured")

	ErrLogViewDenied = fmt.Errorf("%w: only admins may view delivery logs", access.ErrPermissionDenied)
)
