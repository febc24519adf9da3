package user

// SessionResponse tells the dashboard who is signed in and where to send them.
type SessionResponse struct {
	UserID      string       `json:"user_id"`
	Email       string       `json:"email"`
	CompanyID   string       `json:"company_id,omitempty"`
	EmployeeID  *string      `json:"employee_id,omitempty"`
	Role        Role         `json:"role"`
	LandingPath string       `json:"landing_path"`
	Permissions []Permission `json:"permissions"`
}

func NewSessionResponse(p Principal) SessionResponse {
	return SessionResponse{
		UserID:      p.UserID,
		Email:       p.Email,
		CompanyID:   p.CompanyID,
		EmployeeID:  p.EmployeeID,
		Role:        p.Role,
		LandingPath: p.Role.LandingPath(),
		Permissions: Permissions(p.Role),
	}
}
