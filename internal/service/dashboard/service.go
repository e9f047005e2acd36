package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/shift"
	"golang.org/x/sync/errgroup"
)

const recentShiftLimit = 5

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	shifts    shift.ShiftRepository
	employees employee.EmployeeRepository

	minHours float64
	loc      *time.Location
	now      func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	minHours float64,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		shifts:              shiftRepo,
		employees:           employeeRepo,
		minHours:            minHours,
		loc:                 loc,
		now:                 time.Now,
	}
}

// Summary returns the caller's dashboard. Every count is limited to the
// records the caller may see; one goroutine per query.
func (s *DashboardServiceImpl) Summary(ctx context.Context) (dashboard.SummaryResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return dashboard.SummaryResponse{}, err
	}

	now := s.now()
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	scope := actor.Scope()

	resp := dashboard.SummaryResponse{
		Date: today.Format("2006-01-02"),
		Role: string(actor.Role),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.CountEmployees(gCtx, scope)
		resp.TotalEmployees = total
		return err
	})

	g.Go(func() error {
		counts, err := s.ShiftStatusCounts(gCtx, today, scope)
		resp.ShiftsToday = counts
		return err
	})

	g.Go(func() error {
		open, err := s.CountOpenAttendances(gCtx, scope)
		resp.ClockedInNow = open
		return err
	})

	if actor.IsAdmin() || actor.IsSupervisor() {
		g.Go(func() error {
			pending, err := s.CountPendingReports(gCtx, scope)
			if err != nil {
				return err
			}
			resp.PendingReports = &pending
			return nil
		})
	}

	g.Go(func() error {
		filter := shift.ShiftFilter{Page: 1, Limit: recentShiftLimit}
		if err := filter.Validate(); err != nil {
			return err
		}
		recent, _, err := s.shifts.List(gCtx, filter, scope)
		if err != nil {
			return err
		}
		resp.RecentShifts = make([]shift.ShiftResponse, 0, len(recent))
		for _, sh := range access.Visible(actor, recent) {
			resp.RecentShifts = append(resp.RecentShifts, shift.NewShiftResponse(sh, now, s.minHours))
		}
		return nil
	})

	g.Go(func() error {
		mine, err := s.shifts.GetByAgentAndDate(gCtx, actor.EmployeeID, today)
		if err != nil || mine == nil {
			return err
		}
		r := shift.NewShiftResponse(*mine, now, s.minHours)
		resp.MyShiftToday = &r
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.SummaryResponse{}, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return resp, nil
}

// EmployeeStats returns lifetime counters for one employee the caller may see.
func (s *DashboardServiceImpl) EmployeeStats(ctx context.Context, employeeID string) (dashboard.EmployeeStatsResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, err
	}

	e, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, err
	}
	if !actor.CanView(e) {
		return dashboard.EmployeeStatsResponse{}, employee.ErrEmployeeNotFound
	}

	stats, err := s.DashboardRepository.EmployeeStats(ctx, e.ID)
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, fmt.Errorf("failed to get employee stats: %w", err)
	}
	return stats, nil
}
