package employee

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/querycache"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmployeeRepository struct {
	mock.Mock
}

func (m *mockEmployeeRepository) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]employee.Employee), args.Get(1).(int64), args.Error(2)
}

func TestEmployeeService_ListEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run("loads page and stores it", func(t *testing.T) {
		repo := new(mockEmployeeRepository)
		rdb, rmock := redismock.NewClientMock()
		svc := NewEmployeeService(repo, querycache.New(rdb), WithDirectoryTTL(90*time.Second))

		filter := employee.EmployeeFilter{Query: pagination.Query{Skip: 0, Limit: 2, Search: "ayu"}}
		repo.On("List", ctx, "c-1", filter).Return([]employee.Employee{{
			ID:               "e-1",
			EmployeeCode:     "EMP-001",
			FullName:         "Ayu Lestari",
			EmploymentType:   employee.EmploymentTypePermanent,
			EmploymentStatus: employee.EmploymentStatusActive,
			HireDate:         time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC),
		}}, int64(1), nil)

		storeKey := "hrms:q:employees:c-1:list:any:limit=2&search=ayu&skip=0"
		rmock.ExpectGet(storeKey).RedisNil()
		payload, err := json.Marshal(employee.ListEmployeeResponse{
			Employees: []employee.EmployeeResponse{{
				ID:               "e-1",
				EmployeeCode:     "EMP-001",
				FullName:         "Ayu Lestari",
				EmploymentType:   "permanent",
				EmploymentStatus: "active",
				HireDate:         "2023-01-02",
			}},
			Meta: pagination.Meta{Page: 1, Limit: 2, Skip: 0, TotalItems: 1, TotalPages: 1},
		})
		require.NoError(t, err)
		// Directory pages expire on their own short TTL and are not tagged.
		rmock.ExpectSet(storeKey, string(payload), 90*time.Second).SetVal("OK")

		resp, err := svc.ListEmployees(ctx, "c-1", filter)
		require.NoError(t, err)

		require.Len(t, resp.Employees, 1)
		assert.Equal(t, "2023-01-02", resp.Employees[0].HireDate)
		assert.Equal(t, "active", resp.Employees[0].EmploymentStatus)
		assert.Equal(t, int64(1), resp.Meta.TotalItems)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("invalid status", func(t *testing.T) {
		repo := new(mockEmployeeRepository)
		svc := NewEmployeeService(repo, querycache.New(nil))

		status := "retired"
		_, err := svc.ListEmployees(ctx, "c-1", employee.EmployeeFilter{Query: pagination.Query{Limit: 10}, Status: &status})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("status"))
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
