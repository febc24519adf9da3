package user

import "strings"

// Role is the closed set of portal roles. Every switch on Role must cover
// all five values.
type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Platform operator, all companies
	RoleHrAdmin    Role = "hr_admin"    // Manages a company's HR settings
	RoleManager    Role = "manager"     // Approves team leave
	RoleEmployee   Role = "employee"    // Regular employee
	RoleCandidate  Role = "candidate"   // Still in onboarding
)

// Roles lists every role in display order.
var Roles = []Role{RoleSuperAdmin, RoleHrAdmin, RoleManager, RoleEmployee, RoleCandidate}

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleHrAdmin:
		return RoleHrAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleCandidate:
		return RoleCandidate, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}

// LandingPath is the dashboard a role is redirected to after sign-in.
func (r Role) LandingPath() string {
	switch r {
	case RoleSuperAdmin:
		return "/super-admin/dashboard"
	case RoleHrAdmin:
		return "/hr/dashboard"
	case RoleManager:
		return "/manager/dashboard"
	case RoleEmployee:
		return "/employee/dashboard"
	case RoleCandidate:
		return "/onboarding"
	default:
		return "/login"
	}
}

// IsAdmin reports whether the role administers company settings.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSuperAdmin, RoleHrAdmin:
		return true
	case RoleManager, RoleEmployee, RoleCandidate:
		return false
	default:
		return false
	}
}

// Principal is the caller identity carried by an access token.
type Principal struct {
	UserID     string
	Email      string
	CompanyID  string
	EmployeeID *string
	Role       Role
}

// CanAccessCompany reports whether p may read data of companyID.
func (p Principal) CanAccessCompany(companyID string) bool {
	if p.Role == RoleSuperAdmin {
		return true
	}
	return p.CompanyID != "" && p.CompanyID == companyID
}
