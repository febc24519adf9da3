package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"e.company_id = $1", "e.deleted_at IS NULL"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.employment_status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees e WHERE %s", whereClause)
	var total int64
	err := q.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	// Main query with pagination
	query := fmt.Sprintf(`
		SELECT
			e.id, e.company_id, e.employee_code, e.full_name, e.email,
			p.name AS position_name, b.name AS branch_name,
			e.employment_type, e.employment_status, e.avatar_url, e.hire_date,
			e.created_at, e.updated_at
		FROM employees e
		LEFT JOIN positions p ON p.id = e.position_id
		LEFT JOIN branches b ON b.id = e.branch_id
		WHERE %s
		ORDER BY e.full_name ASC, e.id ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Skip)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
			&emp.PositionName, &emp.BranchName,
			&emp.EmploymentType, &emp.EmploymentStatus, &emp.AvatarURL, &emp.HireDate,
			&emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}
