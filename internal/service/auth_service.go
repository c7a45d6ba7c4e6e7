package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/config"
	"github.com/spec-kit/company-portal/internal/domain"
	"github.com/spec-kit/company-portal/internal/events"
	"github.com/spec-kit/company-portal/internal/observability"
	"github.com/spec-kit/company-portal/internal/repository"
	"github.com/spec-kit/company-portal/pkg/claims"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// AuthService coordinates login and token refresh flows.
type AuthService struct {
	admins     repository.AdminRepository
	employees  repository.EmployeeRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	// dummyHash is compared against when no principal matches so that unknown
	// emails take as long to reject as wrong passwords.
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dummy, err := auth.HashPassword("not-a-real-password", cfg.Auth.BcryptCost)
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", zap.Error(err))
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		employees:  deps.EmployeeRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger.Named("auth"),
		now:        time.Now,
		dummyHash:  dummy,
	}
}

// LoginAdmin authenticates an admin.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, auth.IssuedToken, error) {
	email = normalizeEmail(email)
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, auth.IssuedToken{}, s.lookupFailed(domain.RoleAdmin, email, password, err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, auth.IssuedToken{}, s.rejected(domain.RoleAdmin, email)
	}

	token, err := s.tokenMgr.GenerateToken(domain.Principal{ID: admin.ID, Email: admin.Email, Role: domain.RoleAdmin})
	if err != nil {
		s.metrics.RecordLogin(string(domain.RoleAdmin), "error")
		return nil, auth.IssuedToken{}, apperrors.NewInternalError(err)
	}

	s.metrics.RecordLogin(string(domain.RoleAdmin), "success")
	s.logger.Info("admin logged in", zap.Int64("admin_id", admin.ID), observability.Email(admin.Email))
	s.publish(ctx, events.EventAdminLoggedIn, domain.RoleAdmin, admin.ID, events.LoginPayload{
		Email:     admin.Email,
		LoginTime: s.now(),
	})
	return admin, token, nil
}

// LoginEmployee authenticates an active employee and schedules attendance marking.
func (s *AuthService) LoginEmployee(ctx context.Context, email, password string) (*domain.Employee, auth.IssuedToken, error) {
	email = normalizeEmail(email)
	employee, err := s.employees.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, auth.IssuedToken{}, s.lookupFailed(domain.RoleEmployee, email, password, err)
	}
	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		return nil, auth.IssuedToken{}, s.rejected(domain.RoleEmployee, email)
	}

	token, err := s.tokenMgr.GenerateToken(domain.Principal{ID: employee.ID, Email: employee.Email, Role: domain.RoleEmployee})
	if err != nil {
		s.metrics.RecordLogin(string(domain.RoleEmployee), "error")
		return nil, auth.IssuedToken{}, apperrors.NewInternalError(err)
	}

	s.metrics.RecordLogin(string(domain.RoleEmployee), "success")
	s.logger.Info("employee logged in", zap.Int64("employee_id", employee.ID), observability.Email(employee.Email))
	s.publish(ctx, events.EventEmployeeLoggedIn, domain.RoleEmployee, employee.ID, events.LoginPayload{
		Email:     employee.Email,
		LoginTime: s.now(),
	})
	return employee, token, nil
}

// Refresh issues a new token for the subject of an already verified token.
func (s *AuthService) Refresh(ctx context.Context, current *claims.Claims) (auth.IssuedToken, error) {
	token, err := s.tokenMgr.RefreshToken(current)
	if err != nil {
		return auth.IssuedToken{}, apperrors.NewInternalError(err)
	}
	s.metrics.RecordRefresh(string(current.Role))
	s.logger.Debug("token refreshed",
		zap.Int64("subject_id", current.ID),
		zap.String("role", string(current.Role)),
		zap.Time("expires_at", token.Claims.ExpiresAtTime()))
	s.publish(ctx, events.EventTokenRefreshed, current.Role, current.ID, nil)
	return token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// normalizeEmail matches the form emails are stored in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) lookupFailed(role domain.Role, email, password string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		_ = auth.ComparePassword(s.dummyHash, password)
		return s.rejected(role, email)
	}
	s.metrics.RecordLogin(string(role), "error")
	s.logger.Error("credential lookup failed", zap.String("role", string(role)), observability.Email(email), zap.Error(err))
	return apperrors.NewStoreError(err)
}

func (s *AuthService) rejected(role domain.Role, email string) error {
	s.metrics.RecordLogin(string(role), "rejected")
	s.logger.Info("login rejected", zap.String("role", string(role)), observability.Email(email))
	return apperrors.NewInvalidCredentials()
}

// publish emits an event; failures are logged and never reach the caller.
func (s *AuthService) publish(ctx context.Context, eventType events.EventType, role domain.Role, id int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	evt, err := events.NewEvent(eventType, events.Actor{Role: role, ID: id}, s.now(), payload)
	if err == nil {
		err = s.dispatcher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
