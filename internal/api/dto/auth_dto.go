package dto

// LoginRequest payload for both admin and employee login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// AdminSummary is the admin block of a login response.
type AdminSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EmployeeSummary is the employee block of a login response.
type EmployeeSummary struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

// LoginResponse is returned by POST /api/{role}/login.
type LoginResponse struct {
	Message   string           `json:"message"`
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expiresIn"`
	Admin     *AdminSummary    `json:"admin,omitempty"`
	Employee  *EmployeeSummary `json:"employee,omitempty"`
}

// RefreshResponse is returned by POST /api/{role}/refresh-token.
type RefreshResponse struct {
	Message   string `json:"message"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
