package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/events"
)

// AuditService writes a structured log line for session lifecycle events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAdminLoggedIn, a.handle)
	a.dispatcher.Subscribe(events.EventEmployeeLoggedIn, a.handle)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handle)
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("role", string(event.Actor.Role)),
		zap.Int64("subject_id", event.Actor.ID),
		zap.Time("at", event.Timestamp))
	return nil
}
