package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type ShiftServiceImpl struct {
	tx database.Transactor
	shift.ShiftRepository
	employee.EmployeeRepository
	dispatcher notification.Dispatcher

	minHours float64
	loc      *time.Location
	now      func() time.Time
}

func NewShiftService(
	tx database.Transactor,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	dispatcher notification.Dispatcher,
	minHours float64,
	loc *time.Location,
) shift.ShiftService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftServiceImpl{
		tx:                 tx,
		ShiftRepository:    shiftRepo,
		EmployeeRepository: employeeRepo,
		dispatcher:         dispatcher,
		minHours:           minHours,
		loc:                loc,
		now:                time.Now,
	}
}

func (s *ShiftServiceImpl) response(sh shift.Shift) shift.ShiftResponse {
	return shift.NewShiftResponse(sh, s.now(), s.minHours)
}

// canSchedule reports whether actor may create or reschedule shifts for agent.
func canSchedule(actor access.Actor, agent employee.Employee) bool {
	return actor.IsAdmin() ||
		agent.ID == actor.EmployeeID ||
		(actor.IsSupervisor() && actor.IsDirectSupervisorOf(agent.SupervisorID))
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	agentID := actor.EmployeeID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	agent, err := s.EmployeeRepository.GetByID(ctx, agentID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !canSchedule(actor, agent) {
		return shift.ShiftResponse{}, shift.ErrShiftCreateDenied
	}

	date, _ := time.Parse("2006-01-02", req.ShiftDate)
	start, _ := shift.ParseTimeOfDay(req.StartTime)
	end, _ := shift.ParseTimeOfDay(req.EndTime)
	createdBy := actor.EmployeeID

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		AgentID:   agent.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Type:      shift.Type(req.ShiftType),
		Status:    shift.StatusScheduled,
		CreatedBy: &createdBy,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.dispatcher.Dispatch(ctx, notification.ShiftCreated(created))
	return s.response(created), nil
}

// Get implements shift.ShiftService. Shifts outside the caller's visibility
// are reported as not found.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if !actor.CanView(sh) {
		return shift.ShiftResponse{}, shift.ErrShiftNotFound
	}
	return s.response(sh), nil
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context, filter shift.ShiftFilter) (shift.ListShiftResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return shift.ListShiftResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return shift.ListShiftResponse{}, err
	}

	shifts, total, err := s.ShiftRepository.List(ctx, filter, actor.Scope())
	if err != nil {
		return shift.ListShiftResponse{}, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range access.Visible(actor, shifts) {
		responses = append(responses, s.response(sh))
	}

	totalPages, showing := pagination.Summarize(total, filter.Page, filter.Limit)
	return shift.ListShiftResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Shifts:     responses,
	}, nil
}

// Update implements shift.ShiftService. Only scheduled shifts can be moved.
func (s *ShiftServiceImpl) Update(ctx context.Context, id string, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	var updated shift.Shift
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		agent, err := s.EmployeeRepository.GetByID(ctx, sh.AgentID)
		if err != nil {
			return err
		}
		if !canSchedule(actor, agent) {
			return shift.ErrShiftManageDenied
		}
		if sh.Status != shift.StatusScheduled {
			return shift.ErrNotReschedulable
		}

		if req.ShiftDate != nil {
			sh.Date, _ = time.Parse("2006-01-02", *req.ShiftDate)
		}
		if req.StartTime != nil {
			sh.StartTime, _ = shift.ParseTimeOfDay(*req.StartTime)
		}
		if req.EndTime != nil {
			sh.EndTime, _ = shift.ParseTimeOfDay(*req.EndTime)
		}
		if req.ShiftType != nil {
			sh.Type = shift.Type(*req.ShiftType)
		}
		if sh.StartTime == sh.EndTime {
			var errs validator.ValidationErrors
			errs.Add("end_time", "end_time must differ from start_time")
			return errs
		}
		sh.UpdatedAt = s.now()

		if err := s.ShiftRepository.Update(ctx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return s.response(updated), nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(sh) {
			return shift.ErrShiftManageDenied
		}
		return s.ShiftRepository.Delete(ctx, id)
	})
}

func requireAgent(actor access.Actor, sh shift.Shift) error {
	if sh.AgentID != actor.EmployeeID {
		return shift.ErrNotShiftAgent
	}
	return nil
}

func requireManager(actor access.Actor, sh shift.Shift) error {
	if !actor.CanManage(sh) {
		return shift.ErrShiftManageDenied
	}
	return nil
}

// Start implements shift.ShiftService.
func (s *ShiftServiceImpl) Start(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, requireAgent, func(sh *shift.Shift, at time.Time) error {
		return sh.Start(at)
	})
}

// End implements shift.ShiftService.
func (s *ShiftServiceImpl) End(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, requireAgent, func(sh *shift.Shift, at time.Time) error {
		return sh.End(at, s.minHours, s.loc)
	})
}

// Cancel implements shift.ShiftService.
func (s *ShiftServiceImpl) Cancel(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, requireManager, (*shift.Shift).Cancel)
}

// MarkMissed implements shift.ShiftService.
func (s *ShiftServiceImpl) MarkMissed(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, requireManager, (*shift.Shift).MarkMissed)
}

// MarkNoShow implements shift.ShiftService.
func (s *ShiftServiceImpl) MarkNoShow(ctx context.Context, id string) (shift.ShiftResponse, error) {
	return s.transition(ctx, id, requireManager, (*shift.Shift).MarkNoShow)
}

// transition locks the shift, checks the caller, applies one state change and
// persists it. The status notification goes out after commit.
func (s *ShiftServiceImpl) transition(
	ctx context.Context,
	id string,
	authorize func(access.Actor, shift.Shift) error,
	apply func(*shift.Shift, time.Time) error,
) (shift.ShiftResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	var updated shift.Shift
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		sh, err := s.ShiftRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, sh); err != nil {
			return err
		}
		if err := apply(&sh, s.now()); err != nil {
			return err
		}
		if err := s.ShiftRepository.UpdateStatus(ctx, sh); err != nil {
			return err
		}
		updated = sh
		return nil
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	s.dispatcher.Dispatch(ctx, notification.ShiftStatusChanged(updated))
	return s.response(updated), nil
}
