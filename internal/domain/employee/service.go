package employee

import "context"

type EmployeeService interface {
	ListEmployees(ctx context.Context, companyID string, filter EmployeeFilter) (ListEmployeeResponse, error)
}
