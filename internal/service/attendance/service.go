package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/pagination"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	shift.ShiftRepository
	dispatcher notification.Dispatcher

	minHours float64
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	shiftRepo shift.ShiftRepository,
	dispatcher notification.Dispatcher,
	minHours float64,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		ShiftRepository:      shiftRepo,
		dispatcher:           dispatcher,
		minHours:             minHours,
		loc:                  loc,
		now:                  time.Now,
	}
}

// today returns local midnight and the following midnight.
func (a *AttendanceServiceImpl) today() (time.Time, time.Time) {
	n := a.now().In(a.loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, a.loc)
	return start, start.AddDate(0, 0, 1)
}

// ClockIn implements attendance.AttendanceService. Today's shift is linked
// when it is scheduled (and then started) or already in progress.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now()
	day, _ := a.today()

	var (
		created attendance.Attendance
		started *shift.Shift
	)
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := a.AttendanceRepository.LockOpen(ctx, actor.EmployeeID)
		if err != nil {
			return err
		}
		if open != nil {
			return attendance.ErrAlreadyClockedIn
		}

		var shiftID *string
		sh, err := a.ShiftRepository.LockByAgentAndDate(ctx, actor.EmployeeID, day)
		if err != nil {
			return fmt.Errorf("failed to look up today's shift: %w", err)
		}
		if sh != nil {
			switch sh.Status {
			case shift.StatusScheduled:
				if err := sh.Start(now); err != nil {
					return err
				}
				if err := a.ShiftRepository.UpdateStatus(ctx, *sh); err != nil {
					return err
				}
				started = sh
				shiftID = &sh.ID
			case shift.StatusInProgress:
				shiftID = &sh.ID
			}
		}

		// the partial unique index rejects a concurrent second clock-in
		created, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			EmployeeID:  actor.EmployeeID,
			ShiftID:     shiftID,
			ClockInTime: now,
			Status:      attendance.StatusClockedIn,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.dispatcher.Dispatch(ctx, notification.ClockedIn(created, created.EmployeeName))
	if started != nil {
		a.dispatcher.Dispatch(ctx, notification.ShiftStatusChanged(*started))
	}
	return attendance.NewAttendanceResponse(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := a.now()

	var (
		closed    attendance.Attendance
		completed *shift.Shift
	)
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := a.AttendanceRepository.LockOpen(ctx, actor.EmployeeID)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNotClockedIn
		}
		if err := open.Close(now); err != nil {
			return err
		}

		if open.ShiftID != nil {
			sh, err := a.ShiftRepository.LockByID(ctx, *open.ShiftID)
			switch {
			case errors.Is(err, shift.ErrShiftNotFound):
				open.ShiftID = nil
			case err != nil:
				return err
			default:
				open.ApplyVariance(sh.ScheduledDuration())
				if sh.Status == shift.StatusInProgress {
					if err := sh.Complete(now); err != nil {
						return err
					}
					if err := a.ShiftRepository.UpdateStatus(ctx, sh); err != nil {
						return err
					}
					completed = &sh
				}
			}
		}

		if err := a.AttendanceRepository.Update(ctx, *open); err != nil {
			return err
		}
		closed = *open
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.dispatcher.Dispatch(ctx, notification.ClockedOut(closed, closed.EmployeeName))
	if completed != nil {
		a.dispatcher.Dispatch(ctx, notification.ShiftStatusChanged(*completed))
	}
	return attendance.NewAttendanceResponse(closed), nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	return a.toggleBreak(ctx, (*attendance.Attendance).StartBreak)
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	return a.toggleBreak(ctx, (*attendance.Attendance).EndBreak)
}

func (a *AttendanceServiceImpl) toggleBreak(ctx context.Context, apply func(*attendance.Attendance, time.Time) error) (attendance.AttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var updated attendance.Attendance
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := a.AttendanceRepository.LockOpen(ctx, actor.EmployeeID)
		if err != nil {
			return err
		}
		if open == nil {
			return attendance.ErrNotClockedIn
		}
		if err := apply(open, a.now()); err != nil {
			return err
		}
		if err := a.AttendanceRepository.Update(ctx, *open); err != nil {
			return err
		}
		updated = *open
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context) (attendance.StatusResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	open, err := a.AttendanceRepository.GetOpen(ctx, actor.EmployeeID)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open == nil {
		return attendance.StatusResponse{IsClockedIn: false}, nil
	}

	resp := attendance.NewAttendanceResponse(*open)
	return attendance.StatusResponse{
		IsClockedIn: true,
		OnBreak:     open.Status == attendance.StatusOnBreak,
		Attendance:  &resp,
	}, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodaySummaryResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.TodaySummaryResponse{}, err
	}
	from, to := a.today()

	records, err := a.AttendanceRepository.ListByEmployeeBetween(ctx, actor.EmployeeID, from, to)
	if err != nil {
		return attendance.TodaySummaryResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	summary := attendance.TodaySummaryResponse{
		Date:        from.Format("2006-01-02"),
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, rec := range records {
		if rec.IsOpen() {
			summary.IsClockedIn = true
		} else if rec.DurationHours != nil {
			summary.TotalHours += *rec.DurationHours
		}
		summary.Attendances = append(summary.Attendances, attendance.NewAttendanceResponse(rec))
	}
	summary.TotalHours = shift.RoundHours(time.Duration(summary.TotalHours * float64(time.Hour)))

	sh, err := a.ShiftRepository.GetByAgentAndDate(ctx, actor.EmployeeID, from)
	if err != nil {
		return attendance.TodaySummaryResponse{}, fmt.Errorf("failed to get today's shift: %w", err)
	}
	if sh != nil {
		resp := shift.NewShiftResponse(*sh, a.now(), a.minHours)
		summary.Shift = &resp
	}

	return summary, nil
}

// History implements attendance.AttendanceService. It always lists the
// caller's own records.
func (a *AttendanceServiceImpl) History(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	filter.EmployeeID = nil
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	scope := access.Scope{Kind: access.ScopeOwn, EmployeeID: actor.EmployeeID}
	return a.list(ctx, filter, scope)
}

// Team implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Team(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !actor.IsAdmin() && !actor.IsSupervisor() {
		return attendance.ListAttendanceResponse{}, attendance.ErrTeamViewDenied
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return a.list(ctx, filter, actor.Scope())
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter, scope access.Scope) (attendance.ListAttendanceResponse, error) {
	records, total, err := a.AttendanceRepository.List(ctx, filter, scope)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.NewAttendanceResponse(rec))
	}

	totalPages, showing := pagination.Summarize(total, filter.Page, filter.Limit)
	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !actor.CanView(rec) {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	return attendance.NewAttendanceResponse(rec), nil
}
