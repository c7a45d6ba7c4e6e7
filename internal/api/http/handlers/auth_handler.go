package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/company-portal/internal/api/dto"
	"github.com/spec-kit/company-portal/internal/auth"
	"github.com/spec-kit/company-portal/internal/service"
	apperrors "github.com/spec-kit/company-portal/pkg/util/errorutil"
)

// AuthHandler exposes login and token refresh for both roles.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	admin, token, err := h.authService.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:   "Login successful",
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn(),
		Admin:     &dto.AdminSummary{ID: admin.ID, Name: admin.Name, Email: admin.Email},
	})
}

// EmployeeLogin handles POST /api/employee/login.
func (h *AuthHandler) EmployeeLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}
	employee, token, err := h.authService.LoginEmployee(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message:   "Login successful",
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn(),
		Employee: &dto.EmployeeSummary{
			ID:         employee.ID,
			EmployeeID: employee.Code,
			Name:       employee.Name,
			Email:      employee.Email,
			Position:   employee.Position,
			Department: employee.Department,
		},
	})
}

// Refresh handles POST /api/{role}/refresh-token. The route sits behind the
// auth middleware, so the presented token is already verified.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	current, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewMissingToken()
	}
	token, err := h.authService.Refresh(c.UserContext(), current)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{
		Message:   "Token refreshed successfully",
		Token:     token.Token,
		ExpiresIn: token.ExpiresIn(),
	})
}

func parseLogin(c *fiber.Ctx) (*dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
