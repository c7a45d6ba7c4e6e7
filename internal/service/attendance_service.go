package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/observability"
	"github.com/spec-kit/company-portal/internal/repository"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// myAttendanceLimit caps the employee's own attendance history.
const myAttendanceLimit = 30

// AttendanceService records and lists attendance.
type AttendanceService struct {
	repo    repository.AttendanceRepository
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo repository.AttendanceRepository, metrics *observability.Metrics, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, metrics: metrics, logger: logger.Named("attendance")}
}

// MarkLogin marks the employee present for the UTC date of loginTime.
func (s *AttendanceService) MarkLogin(ctx context.Context, employeeID int64, loginTime time.Time) error {
	date := domain.AttendanceDate(loginTime)
	if err := s.repo.MarkPresent(ctx, employeeID, date, loginTime); err != nil {
		s.metrics.RecordAttendance("error")
		return apperrors.NewStoreError(err)
	}
	s.metrics.RecordAttendance("ok")
	s.logger.Info("attendance marked",
		zap.Int64("employee_id", employeeID),
		zap.String("date", date.Format(time.DateOnly)))
	return nil
}

// ListForEmployee returns the employee's most recent attendance rows.
func (s *AttendanceService) ListForEmployee(ctx context.Context, employeeID int64) ([]domain.Attendance, error) {
	rows, err := s.repo.ListByEmployee(ctx, employeeID, myAttendanceLimit)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return rows, nil
}

// ListAll returns attendance for every employee.
func (s *AttendanceService) ListAll(ctx context.Context) ([]domain.Attendance, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(err)
	}
	return rows, nil
}
