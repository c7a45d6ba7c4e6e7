package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/events"
	"github.com/spec-kit/company-portal/internal/service"
)

// StartAttendanceWorker marks attendance whenever an employee logs in.
// Failures are logged by the dispatcher and never reach the login response.
func StartAttendanceWorker(dispatcher events.Dispatcher, attendance *service.AttendanceService, logger *zap.Logger) {
	if dispatcher == nil || attendance == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("attendance_worker")

	dispatcher.Subscribe(events.EventEmployeeLoggedIn, func(ctx context.Context, event events.Event) error {
		var payload events.LoginPayload
		if err := event.DecodePayload(&payload); err != nil {
			return fmt.Errorf("decode login payload: %w", err)
		}
		if err := attendance.MarkLogin(ctx, event.Actor.ID, payload.LoginTime); err != nil {
			log.Warn("attendance not recorded",
				zap.Int64("employee_id", event.Actor.ID),
				zap.String("event_id", event.ID),
				zap.Error(err))
			return err
		}
		return nil
	})
}

// StartAuditWorker registers audit log handlers.
func StartAuditWorker(audit *service.AuditService) {
	if audit == nil {
		return
	}
	audit.RegisterHandlers()
}
