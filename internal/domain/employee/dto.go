package employee

import (
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
)

type EmployeeFilter struct {
	pagination.Query

	// Filter
	Status *string `json:"status,omitempty"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		validStatuses := []string{
			string(EmploymentStatusActive),
			string(EmploymentStatusResigned),
			string(EmploymentStatusTerminated),
		}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, resigned, terminated",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	EmployeeCode     string  `json:"employee_code"`
	FullName         string  `json:"full_name"`
	Email            *string `json:"email,omitempty"`
	PositionName     *string `json:"position_name,omitempty"`
	BranchName       *string `json:"branch_name,omitempty"`
	EmploymentType   string  `json:"employment_type"`
	EmploymentStatus string  `json:"employment_status"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	HireDate         string  `json:"hire_date"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FullName,
		Email:            e.Email,
		PositionName:     e.PositionName,
		BranchName:       e.BranchName,
		EmploymentType:   string(e.EmploymentType),
		EmploymentStatus: string(e.EmploymentStatus),
		AvatarURL:        e.AvatarURL,
		HireDate:         e.HireDate.Format("2006-01-02"),
	}
}

type ListEmployeeResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Meta      pagination.Meta    `json:"meta"`
}
