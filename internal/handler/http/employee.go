package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-portal/internal/handler/http/response"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	defaults        pagination.Defaults
}

func NewEmployeeHandler(employeeService employee.EmployeeService, defaults pagination.Defaults) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		defaults:        defaults,
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query, err := pagination.ParseQuery(r.URL.Query(), h.defaults)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := employee.EmployeeFilter{Query: query}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	companyID := middleware.CompanyIDFromContext(r.Context())
	result, err := h.employeeService.ListEmployees(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Employees, result.Meta)
}
