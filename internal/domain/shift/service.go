package shift

import "context"

type ShiftService interface {
	Create(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	Get(ctx context.Context, id string) (ShiftResponse, error)
	List(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
	Update(ctx context.Context, id string, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, id string) error

	Start(ctx context.Context, id string) (ShiftResponse, error)
	End(ctx context.Context, id string) (ShiftResponse, error)
	Cancel(ctx context.Context, id string) (ShiftResponse, error)
	MarkMissed(ctx context.Context, id string) (ShiftResponse, error)
	MarkNoShow(ctx context.Context, id string) (ShiftResponse, error)
}
