package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/validator"
)

type ReportServiceImpl struct {
	tx database.Transactor
	report.ReportRepository
	attendance.AttendanceRepository
	dispatcher notification.Dispatcher

	now func() time.Time
}

func NewReportService(
	tx database.Transactor,
	reportRepo report.ReportRepository,
	attendanceRepo attendance.AttendanceRepository,
	dispatcher notification.Dispatcher,
) report.ReportService {
	return &ReportServiceImpl{
		tx:                   tx,
		ReportRepository:     reportRepo,
		AttendanceRepository: attendanceRepo,
		dispatcher:           dispatcher,
		now:                  time.Now,
	}
}

// Submit implements report.ReportService. Reports can only be filed against
// the caller's own, closed attendance records.
func (s *ReportServiceImpl) Submit(ctx context.Context, req report.SubmitReportRequest) (report.ReportResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	att, err := s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if att.EmployeeID != actor.EmployeeID {
		var errs validator.ValidationErrors
		errs.Add("attendance_id", "attendance record does not belong to you")
		return report.ReportResponse{}, errs
	}
	if att.IsOpen() {
		return report.ReportResponse{}, report.ErrNotClockedOut
	}

	exists, err := s.ReportRepository.ExistsForAttendance(ctx, att.ID)
	if err != nil {
		return report.ReportResponse{}, fmt.Errorf("failed to check existing report: %w", err)
	}
	if exists {
		return report.ReportResponse{}, report.ErrDuplicateReport
	}
	if err := report.ValidateMetrics(req.Metrics()); err != nil {
		return report.ReportResponse{}, err
	}

	// the unique constraint still catches a concurrent duplicate
	created, err := s.ReportRepository.Create(ctx, report.ActivityReport{
		AttendanceID: att.ID,
		EmployeeID:   actor.EmployeeID,
		ShiftID:      att.ShiftID,
		Type:         report.Type(req.ReportType),
		Description:  req.Description,
		Notes:        req.Notes,
		Metrics:      req.Metrics(),
		SubmittedAt:  s.now(),
	})
	if err != nil {
		return report.ReportResponse{}, err
	}

	s.dispatcher.Dispatch(ctx, notification.ReportSubmitted(created, created.EmployeeName))
	return report.NewReportResponse(created), nil
}

// Get implements report.ReportService.
func (s *ReportServiceImpl) Get(ctx context.Context, id string) (report.ReportResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}

	rep, err := s.ReportRepository.GetByID(ctx, id)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if !actor.CanView(rep) {
		return report.ReportResponse{}, report.ErrReportNotFound
	}
	return report.NewReportResponse(rep), nil
}

// List implements report.ReportService.
func (s *ReportServiceImpl) List(ctx context.Context, filter report.ReportFilter) (report.ListReportResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return report.ListReportResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return report.ListReportResponse{}, err
	}

	reports, total, err := s.ReportRepository.List(ctx, filter, actor.Scope())
	if err != nil {
		return report.ListReportResponse{}, fmt.Errorf("failed to list reports: %w", err)
	}

	responses := make([]report.ReportResponse, 0, len(reports))
	for _, r := range access.Visible(actor, reports) {
		responses = append(responses, report.NewReportResponse(r))
	}

	totalPages, showing := pagination.Summarize(total, filter.Page, filter.Limit)
	return report.ListReportResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Reports:    responses,
	}, nil
}

// Update implements report.ReportService.
func (s *ReportServiceImpl) Update(ctx context.Context, id string, req report.UpdateReportRequest) (report.ReportResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return report.ReportResponse{}, err
	}

	var updated report.ActivityReport
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rep, err := s.ReportRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanEdit(rep) {
			return report.ErrEditDenied
		}
		if err := rep.EnsureMutable(); err != nil {
			return err
		}

		req.Apply(&rep)
		if err := report.ValidateMetrics(rep.Metrics); err != nil {
			return err
		}
		rep.UpdatedAt = s.now()

		if err := s.ReportRepository.Update(ctx, rep); err != nil {
			return err
		}
		updated = rep
		return nil
	})
	if err != nil {
		return report.ReportResponse{}, err
	}
	return report.NewReportResponse(updated), nil
}

// Delete implements report.ReportService.
func (s *ReportServiceImpl) Delete(ctx context.Context, id string) error {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return err
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rep, err := s.ReportRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanEdit(rep) {
			return report.ErrEditDenied
		}
		if err := rep.EnsureMutable(); err != nil {
			return err
		}
		return s.ReportRepository.Delete(ctx, id)
	})
}

// Approve implements report.ReportService. A report is approved once; only
// the employee's direct supervisor or an admin may approve it.
func (s *ReportServiceImpl) Approve(ctx context.Context, id string) (report.ReportResponse, error) {
	actor, err := access.FromContext(ctx)
	if err != nil {
		return report.ReportResponse{}, err
	}

	var approved report.ActivityReport
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rep, err := s.ReportRepository.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if rep.IsApproved {
			return report.ErrAlreadyApproved
		}
		if !actor.CanManage(rep) {
			return report.ErrApproveDenied
		}
		if err := rep.Approve(actor.EmployeeID, s.now()); err != nil {
			return err
		}

		approved, err = s.ReportRepository.Approve(ctx, rep)
		return err
	})
	if err != nil {
		return report.ReportResponse{}, err
	}

	s.dispatcher.Dispatch(ctx, notification.ReportApproved(approved))
	return report.NewReportResponse(approved), nil
}
