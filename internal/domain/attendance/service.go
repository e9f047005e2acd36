package attendance

import "context"

type AttendanceService interface {
	ClockIn(ctx context.Context) (AttendanceResponse, error)
	ClockOut(ctx context.Context) (AttendanceResponse, error)
	StartBreak(ctx context.Context) (AttendanceResponse, error)
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	Status(ctx context.Context) (StatusResponse, error)
	Today(ctx context.Context) (TodaySummaryResponse, error)
	History(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Team(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Get(ctx context.Context, id string) (AttendanceResponse, error)
}
