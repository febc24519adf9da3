package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/querycache"
)

// DefaultDirectoryTTL bounds how stale a cached directory page can get.
// Employees are written by the core HRMS, so nothing here invalidates them.
const DefaultDirectoryTTL = 2 * time.Minute

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	cache        *querycache.Cache
	ttl          time.Duration
}

type Option func(*EmployeeServiceImpl)

func WithDirectoryTTL(ttl time.Duration) Option {
	return func(s *EmployeeServiceImpl) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, cache *querycache.Cache, opts ...Option) employee.EmployeeService {
	s := &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		cache:        cache,
		ttl:          DefaultDirectoryTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, companyID string, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	status := "any"
	if filter.Status != nil {
		status = *filter.Status
	}
	key := querycache.NewKey(nil, "employees", companyID, "list", status, filter.Query.Values().Encode())
	key.TTL = s.ttl

	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (employee.ListEmployeeResponse, error) {
		items, total, err := s.employeeRepo.List(ctx, companyID, filter)
		if err != nil {
			return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
		}

		responses := make([]employee.EmployeeResponse, 0, len(items))
		for _, e := range items {
			responses = append(responses, employee.NewEmployeeResponse(e))
		}

		return employee.ListEmployeeResponse{
			Employees: responses,
			Meta:      pagination.NewMeta(filter.Query, total),
		}, nil
	})
}
