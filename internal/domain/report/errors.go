package report

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/access"
)

var (
	ErrReportNotFound  = errors.New("activity report not found")
	ErrDuplicateReport = errors.New("a report already exists for this attendance")
	ErrNotClockedOut   = errors.New("attendance must be clocked out before reporting")
	ErrAlreadyApproved = errors.New("report already approved")
	ErrImmutableRecord = errors.New("approved reports cannot be changed")

	ErrApproveDenied = fmt.Errorf("%w: only the employee's direct supervisor or an admin may approve", access.ErrPermissionDenied)
	ErrEditDenied    = fmt.Errorf("%w: only the report's author or an admin may change it", access.ErrPermissionDenied)
)
