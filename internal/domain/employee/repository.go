package employee

import "context"

type EmployeeRepository interface {
	// List returns one page of the company directory and the total match count.
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]Employee, int64, error)
}
